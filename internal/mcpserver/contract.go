package mcpserver

// SnippetFormatContract describes how snippet files are laid out and which
// metadata the service reads from them.
const SnippetFormatContract = `# MySnippets Snippet Format

A snippet is one CSS file directly inside the snippets folder. Its name is
the file name without the ` + "`" + `.css` + "`" + ` extension. Sub-folders and hidden
files are ignored.

## Metadata

` + "```" + `css
/* Readable Line Length
   Caps the editor width at 700px. */

/* @settings
name: Line Length
id: line-length
settings:
  - id: line-width
    title: Line width
    type: variable-number
    default: 700
*/

.markdown-source-view { --file-line-width: 700px; }
` + "```" + `

## Rules

1. **Title.** The first line of the leading comment is the snippet title. The
   remaining lines are its description.
2. **Settings block.** A comment starting with ` + "`" + `@settings` + "`" + ` holds a YAML
   document in the Style Settings format. Its ` + "`" + `name` + "`" + ` overrides the title.
3. **Broken metadata** never hides a snippet; it is listed without a title.
4. **Enabled state** lives outside the file. Use ` + "`" + `set_snippet_enabled` + "`" + ` or
   ` + "`" + `toggle_snippet` + "`" + ` rather than editing the CSS.
5. **Encoding** is UTF-8. A leading byte order mark is ignored.
`
