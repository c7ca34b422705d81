package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jRPC "github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/0xPolygon/cdk-verifier/cache"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/0xPolygon/cdk-verifier/verifier"
	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const (
	// FlagCfg is the flag for cfg.
	FlagCfg = "cfg"
	// FlagSaveConfigPath is the flag to save the final configuration file
	FlagSaveConfigPath = "save-config-path"
	// FlagOutputFile is the flag for the output file
	FlagOutputFile = "output"
	// FlagBatch is the flag for the file holding the hex encoded calldata of a committed batch
	FlagBatch = "batch"
	// FlagPobs is the flag for the JSON file holding the pobs of a batch
	FlagPobs = "pobs"
	// FlagSchema is the flag to print the JSON schema of the configuration
	FlagSchema = "schema"

	EnvVarPrefix       = "CDK_VERIFIER"
	ConfigType         = "toml"
	SaveConfigFileName = "cdk_verifier_config.toml"

	DefaultCreationFilePermissions = os.FileMode(0600)
)

/*
Config represents the configuration of the batch verifier
The file is [TOML format]

[TOML format]: https://en.wikipedia.org/wiki/TOML
*/
type Config struct {
	// Configure Log level for all the services, allow also to store the logs in a file
	Log log.Config
	// Verifier is the configuration of the batch verifier and its execution endpoint
	Verifier verifier.Config
	// Cache is the configuration of the cache of the Poe already computed
	Cache cache.Config
	// RPC is the config for the RPC server
	RPC jRPC.Config
}

// Load loads the configuration
func Load(ctx *cli.Context) (*Config, error) {
	configFilePath := ctx.StringSlice(FlagCfg)
	filesData, err := readFiles(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading files:  Err:%w", err)
	}
	saveConfigPath := ctx.String(FlagSaveConfigPath)
	return LoadFile(filesData, saveConfigPath)
}

func readFiles(files []string) ([]FileData, error) {
	result := make([]FileData, 0)
	for _, file := range files {
		fileContent, err := readFileToString(file)
		if err != nil {
			return nil, fmt.Errorf("error reading file content: %s. Err:%w", file, err)
		}
		fileExtension := getFileExtension(file)
		if fileExtension != ConfigType {
			fileContent, err = convertFileToToml(fileContent, fileExtension)
			if err != nil {
				return nil, fmt.Errorf("error converting file: %s from %s to TOML. Err:%w", file, fileExtension, err)
			}
		}
		result = append(result, FileData{Name: file, Content: fileContent})
	}
	return result, nil
}

func getFileExtension(fileName string) string {
	return fileName[strings.LastIndex(fileName, ".")+1:]
}

// LoadFile renders the default configuration merged with files and decodes it.
// When saveConfigPath is set the rendered configuration is written there.
func LoadFile(files []FileData, saveConfigPath string) (*Config, error) {
	fileData := make([]FileData, 0, len(files)+2) //nolint:mnd
	fileData = append(fileData, FileData{Name: "default_vars", Content: DefaultVars})
	fileData = append(fileData, FileData{Name: "default_values", Content: DefaultValues})
	fileData = append(fileData, files...)

	merger := NewConfigRender(fileData, EnvVarPrefix)

	renderedCfg, err := merger.Render()
	if err != nil {
		return nil, err
	}
	if saveConfigPath != "" {
		fullPath := filepath.Join(saveConfigPath, SaveConfigFileName)
		err = os.WriteFile(fullPath, []byte(renderedCfg), DefaultCreationFilePermissions)
		if err != nil {
			err = fmt.Errorf("error writing config file: %s. Err: %w", fullPath, err)
			log.Error(err)
			return nil, err
		}
	}
	return LoadFileFromString(renderedCfg, ConfigType)
}

// LoadFileFromString decodes a rendered configuration
func LoadFileFromString(configFileData string, configType string) (*Config, error) {
	expectedKeys, err := defaultKeys()
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := loadString(cfg, configFileData, configType, true, EnvVarPrefix, expectedKeys); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultKeys() ([]string, error) {
	v := viper.New()
	v.SetConfigType(ConfigType)
	if err := v.ReadConfig(bytes.NewBufferString(DefaultVars + DefaultValues)); err != nil {
		return nil, fmt.Errorf("error reading default values. Err: %w", err)
	}
	return v.AllKeys(), nil
}

func loadString(cfg *Config, configData string, configType string,
	allowEnvVars bool, envPrefix string, expectedKeys []string) error {
	v := viper.New()
	v.SetConfigType(configType)
	if allowEnvVars {
		replacer := strings.NewReplacer(".", "_")
		v.SetEnvKeyReplacer(replacer)
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
	}
	err := v.ReadConfig(bytes.NewBufferString(configData))
	if err != nil {
		return err
	}
	decodeHooks := []viper.DecoderConfigOption{
		// this allows arrays to be decoded from env var separated by ",", example: MY_VAR="value1,value2,value3"
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(), mapstructure.StringToSliceHookFunc(","))),
	}

	err = v.Unmarshal(&cfg, decodeHooks...)
	if err != nil {
		return err
	}

	for _, field := range getUnexpectedFields(v.AllKeys(), expectedKeys) {
		log.Warnf("field %s in config file doesnt have a default value and is ignored", field)
	}
	return nil
}

func getUnexpectedFields(keysOnFile, expectedConfigKeys []string) []string {
	wrongFields := make([]string, 0)
	for _, key := range keysOnFile {
		if !contains(expectedConfigKeys, key) {
			wrongFields = append(wrongFields, key)
		}
	}
	return wrongFields
}

// JSONSchema returns the JSON schema of the configuration file
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return r.Reflect(&Config{}).MarshalJSON()
}
