package config

import (
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/temirov/printdir/internal/tree"
	"github.com/temirov/printdir/internal/utils"
)

const (
	defaultTokenModel = "gpt-4o"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the defaults applied to flags the user did not set.
type ApplicationConfiguration struct {
	Tree TreeConfiguration `mapstructure:"tree" yaml:"tree" json:"tree"`
}

// TreeConfiguration mirrors the tree flags. Nil pointers and empty values mean "not configured".
type TreeConfiguration struct {
	Depth     *int               `mapstructure:"depth" yaml:"depth,omitempty" json:"depth"`
	Ignore    []string           `mapstructure:"ignore" yaml:"ignore" json:"ignore"`
	NoContent []string           `mapstructure:"no_content" yaml:"no_content" json:"no_content"`
	Hidden    *bool              `mapstructure:"hidden" yaml:"hidden,omitempty" json:"hidden"`
	Order     string             `mapstructure:"order" yaml:"order,omitempty" json:"order"`
	ToFile    *bool              `mapstructure:"to_file" yaml:"to_file,omitempty" json:"to_file"`
	Copy      *bool              `mapstructure:"copy" yaml:"copy,omitempty" json:"copy"`
	Timing    *bool              `mapstructure:"timing" yaml:"timing,omitempty" json:"timing"`
	Tokens    TokenConfiguration `mapstructure:"tokens" yaml:"tokens" json:"tokens"`
}

// TokenConfiguration controls token estimation defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled,omitempty" json:"enabled"`
	Model   string `mapstructure:"model" yaml:"model,omitempty" json:"model"`
}

// DefaultConfiguration returns the built-in defaults with every field populated.
func DefaultConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Tree: TreeConfiguration{
			Depth:     intPointer(tree.UnlimitedDepth),
			Ignore:    []string{},
			NoContent: []string{},
			Hidden:    boolPointer(true),
			Order:     string(tree.OrderName),
			ToFile:    boolPointer(false),
			Copy:      boolPointer(false),
			Timing:    boolPointer(false),
			Tokens: TokenConfiguration{
				Enabled: boolPointer(false),
				Model:   defaultTokenModel,
			},
		},
	}
}

// LoadApplicationConfiguration loads configuration from the global and local files.
// Values from the local (or explicit) file override the global ones. Missing files are not an error.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Tree.Ignore = utils.DeduplicatePatterns(merged.Tree.Ignore)
	merged.Tree.NoContent = utils.DeduplicatePatterns(merged.Tree.NoContent)

	if validationErr := merged.Validate(); validationErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("invalid configuration: %w", validationErr)
	}
	return merged, nil
}

// Effective returns the defaults overlaid with the receiver.
func (config ApplicationConfiguration) Effective() ApplicationConfiguration {
	return DefaultConfiguration().Merge(config)
}

// Validate checks enumerated values.
func (config ApplicationConfiguration) Validate() error {
	treeConfiguration := config.Tree
	return validation.ValidateStruct(&treeConfiguration,
		validation.Field(&treeConfiguration.Order, validation.In(string(tree.OrderName), string(tree.OrderLegacy))),
	)
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Tree = result.Tree.merge(override.Tree)
	return result
}

func (config TreeConfiguration) merge(override TreeConfiguration) TreeConfiguration {
	result := config
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, utils.DeduplicatePatterns(override.Ignore)...)
	}
	if len(override.NoContent) > 0 {
		result.NoContent = append([]string{}, utils.DeduplicatePatterns(override.NoContent)...)
	}
	if override.Hidden != nil {
		result.Hidden = cloneBool(override.Hidden)
	}
	if override.Order != "" {
		result.Order = override.Order
	}
	if override.ToFile != nil {
		result.ToFile = cloneBool(override.ToFile)
	}
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	if override.Timing != nil {
		result.Timing = cloneBool(override.Timing)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func boolPointer(value bool) *bool {
	return &value
}

func intPointer(value int) *int {
	return &value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
