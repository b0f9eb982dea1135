package config

import (
	"os"

	"codeberg.org/mutker/miosbridge/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultHubURL         = "http://127.0.0.1:3480"
	defaultInterval       = 60
	defaultServer         = "127.0.0.1:10051"
	defaultSender         = "zabbix_sender"
	defaultHostPrefix     = "Vera"
	defaultHostGroup      = "MiOS"
	defaultTemplateGroup  = "Templates/MiOS"
	defaultJournalDB      = "/var/lib/miosbridge/journal.db"
	defaultJournalBatch   = 64
	defaultJournalTimeout = 30
)

// Config holds all settings for the bridge. Values come from the TOML
// config file, overridden by command line flags.
type Config struct {
	HubURL              string `mapstructure:"hub_url"`
	Interval            int    `mapstructure:"interval"`
	Server              string `mapstructure:"server"`
	Sender              string `mapstructure:"sender"`
	AgentHost           string `mapstructure:"agent_host"`
	HostPrefix          string `mapstructure:"host_prefix"`
	HostGroup           string `mapstructure:"host_group"`
	TemplateGroup       string `mapstructure:"template_group"`
	Journal             bool   `mapstructure:"journal"`
	JournalDB           string `mapstructure:"journal_db"`
	JournalBatchSize    int    `mapstructure:"journal_batch_size"`
	JournalBatchTimeout int    `mapstructure:"journal_batch_timeout"`
	LogLevel            string `mapstructure:"log_level"`

	ExportHosts     bool `mapstructure:"-"`
	ExportTemplates bool `mapstructure:"-"`
	ExportSummary   bool `mapstructure:"-"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	setDefaults(v)

	flags := pflag.NewFlagSet("miosbridge", pflag.ContinueOnError)
	// Tolerate foreign flags so the loader can run under "go test"
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.String("hub-url", defaultHubURL, "Base URL of the hub's data request endpoint")
	flags.Int("interval", defaultInterval, "Hub poll interval in seconds")
	flags.String("server", defaultServer, "Collector server address (host:port)")
	flags.String("sender", defaultSender, "Collector sender binary")
	flags.String("agent-host", "", "Agent hostname written into host exports")
	flags.String("host-prefix", defaultHostPrefix, "Prefix for exported host names")
	flags.String("host-group", defaultHostGroup, "Host group for host exports")
	flags.String("template-group", defaultTemplateGroup, "Group for template exports")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("debug", false, "Shorthand for --log-level debug")
	flags.Bool("verbose", false, "Shorthand for --log-level info")
	exportHosts := flags.Bool("export-hosts", false, "Render the host export document and exit")
	exportTemplates := flags.Bool("export-templates", false, "Render the template export document and exit")
	exportSummary := flags.Bool("export-summary", false, "Render template shells without items and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Flags set on the command line override config file values
	flagKeys := map[string]string{
		"hub-url":        "hub_url",
		"interval":       "interval",
		"server":         "server",
		"sender":         "sender",
		"agent-host":     "agent_host",
		"host-prefix":    "host_prefix",
		"host-group":     "host_group",
		"template-group": "template_group",
		"log-level":      "log_level",
	}
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	if debug, _ := flags.GetBool("debug"); debug {
		v.Set("log_level", "debug")
	} else if verbose, _ := flags.GetBool("verbose"); verbose {
		v.Set("log_level", "info")
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	config.ExportHosts = *exportHosts
	config.ExportTemplates = *exportTemplates
	config.ExportSummary = *exportSummary

	if config.AgentHost == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
		config.AgentHost = hostname
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hub_url", defaultHubURL)
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("server", defaultServer)
	v.SetDefault("sender", defaultSender)
	v.SetDefault("agent_host", "")
	v.SetDefault("host_prefix", defaultHostPrefix)
	v.SetDefault("host_group", defaultHostGroup)
	v.SetDefault("template_group", defaultTemplateGroup)
	v.SetDefault("journal", false)
	v.SetDefault("journal_db", defaultJournalDB)
	v.SetDefault("journal_batch_size", defaultJournalBatch)
	v.SetDefault("journal_batch_timeout", defaultJournalTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
}

func readConfigFile(v *viper.Viper) error {
	errFactory := errors.New()

	if path := os.Getenv("MIOSBRIDGE_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").
				WithData(err.Error())
		}

		return nil
	}

	v.SetConfigName("miosbridge")
	v.SetConfigType("toml")
	v.AddConfigPath("/etc")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errFactory.WithMessage(errors.ErrReadConfig, "Failed to read config file").
				WithData(err.Error())
		}
	}

	return nil
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	errFactory := errors.New()

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "interval must be positive")
	}

	if c.Journal && c.JournalDB == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "journal enabled without journal_db")
	}

	return nil
}
