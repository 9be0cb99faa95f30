package internal

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/mysnippets/internal/menu"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Snippets SnippetsConfig    `yaml:"snippets"`
	Menu     MenuConfig        `yaml:"menu"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Snippets.Validate(); err != nil {
		return err
	}
	if err := c.Menu.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
//
// Host defaults to the loopback interface. AllowedOrigins lists browser
// origins, besides the server's own, that may call state-changing routes.
type HTTPConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.AllowedOrigins, validation.Each(validation.Required, validation.By(originURL))),
	)
}

// originURL accepts scheme://host[:port] with nothing after it.
func originURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" || strings.Trim(u.Path, "/") != "" {
		return fmt.Errorf("must be an origin like https://host:port")
	}
	return nil
}

// SnippetsConfig locates the snippets folder and the enabled-state database.
type SnippetsConfig struct {
	Folder    string        `yaml:"folder"`
	StatePath string        `yaml:"state_path"`
	Watch     bool          `yaml:"watch"`
	Debounce  time.Duration `yaml:"debounce"`
}

// Validate validates the snippets configuration.
func (c *SnippetsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Folder, validation.Required),
		validation.Field(&c.StatePath, validation.Required),
		validation.Field(&c.Debounce, validation.Min(time.Millisecond)),
	)
}

// ViewportConfig is the screen size assumed when a client does not send one.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Validate validates the viewport configuration.
func (c *ViewportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(1)),
		validation.Field(&c.Height, validation.Required, validation.Min(1)),
	)
}

// MenuConfig holds the user settings the snippets menu honours.
type MenuConfig struct {
	AestheticStyle  bool           `yaml:"aesthetic_style"`
	FailurePolicy   string         `yaml:"failure_policy"`
	DefaultViewport ViewportConfig `yaml:"default_viewport"`
}

// Validate validates the menu configuration.
func (c *MenuConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.FailurePolicy, validation.In(
			menu.PolicyNameNotify, menu.PolicyNameLog, menu.PolicyNameSilent)),
	); err != nil {
		return err
	}
	return c.DefaultViewport.Validate()
}

// Settings converts the configuration into menu settings.
func (c *MenuConfig) Settings() (menu.Settings, error) {
	policy, err := menu.ParsePolicy(c.FailurePolicy)
	if err != nil {
		return menu.Settings{}, err
	}
	return menu.Settings{
		AestheticStyle: c.AestheticStyle,
		FailurePolicy:  policy,
	}, nil
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Host: "127.0.0.1",
				Port: 8080,
			},
		},
		Snippets: SnippetsConfig{
			Folder:    "./snippets",
			StatePath: "./mysnippets.db",
			Watch:     true,
			Debounce:  200 * time.Millisecond,
		},
		Menu: MenuConfig{
			FailurePolicy: menu.PolicyNameNotify,
			DefaultViewport: ViewportConfig{
				Width:  1280,
				Height: 800,
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
