package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

var (
	ErrCycleVars                 = fmt.Errorf("cycle vars")
	ErrMissingVars               = fmt.Errorf("missing vars")
	ErrUnsupportedConfigFileType = fmt.Errorf("unsupported config file type")

	// A = {{B}} is not valid TOML, it is quoted as A = "{{B:int}}" while rendering
	unquotedVarRe = regexp.MustCompile(`=\s*\{\{([^}:]+)\}\}`)
	quotedVarRe   = regexp.MustCompile(`=\s*\"\{\{([^}:]+:int)\}\}\"`)
	typeMarkRe    = regexp.MustCompile(`\{\{([^}:]+:int)\}\}`)
)

type FileData struct {
	Name    string
	Content string
}

// ConfigRender merges TOML files, later files overriding earlier ones, and
// resolves the {{Var}} references among their values.
type ConfigRender struct {
	FilesData []FileData
	// LookupEnvFunc resolves environment variables, typically os.LookupEnv
	LookupEnvFunc func(key string) (string, bool)
	// EnvPrefix prefixes the environment variable overriding a var: <EnvPrefix>_<Var>
	EnvPrefix string
}

func NewConfigRender(filesData []FileData, envPrefix string) *ConfigRender {
	return &ConfigRender{
		FilesData:     filesData,
		LookupEnvFunc: os.LookupEnv,
		EnvPrefix:     envPrefix,
	}
}

// Render merges all the files and resolves the vars inside
func (c *ConfigRender) Render() (string, error) {
	mergedData, err := c.Merge()
	if err != nil {
		return "", fmt.Errorf("fail to merge files. Err: %w", err)
	}
	return c.ResolveVars(mergedData)
}

func (c *ConfigRender) Merge() (string, error) {
	k := koanf.New(".")
	for _, data := range c.FilesData {
		dataToml := quoteVars(data.Content)
		if err := k.Load(rawbytes.Provider([]byte(dataToml)), toml.Parser()); err != nil {
			log.Errorf("error loading file %s. Err:%v.FileData: %v", data.Name, err, dataToml)
			return "", fmt.Errorf("fail to load converted template %s to toml. Err: %w", data.Name, err)
		}
	}
	marshaled, err := k.Marshal(toml.Parser())
	if err != nil {
		return "", fmt.Errorf("fail to marshal to toml. Err: %w", err)
	}
	return RemoveQuotesForVars(string(marshaled)), nil
}

// ResolveVars replaces every var by its value, taken from the environment
// first and from the config itself otherwise.
func (c *ConfigRender) ResolveVars(fullConfigData string) (string, error) {
	tpl, values, err := c.readTemplate(fullConfigData)
	if err != nil {
		return "", err
	}
	rendered := RemoveTypeMarks(c.executeTemplate(tpl, values))
	if missing := c.unresolvedVars(tpl, values, true); len(missing) > 0 {
		return rendered, fmt.Errorf("missing vars: %v. Err: %w", missing, ErrMissingVars)
	}
	// vars left once every var has a value reference each other: A = {{B}}, B = {{A}}
	finalConfigData, err := c.ResolveCycle(rendered)
	if err != nil {
		return fullConfigData, err
	}
	return finalConfigData, nil
}

// ResolveCycle renders the config until no var is left. A step that does
// not reduce the number of vars means they form a cycle.
func (c *ConfigRender) ResolveCycle(partialResolvedConfigData string) (string, error) {
	data := RemoveQuotesForVars(partialResolvedConfigData)
	pending := c.GetVars(data)
	if len(pending) == 0 {
		return partialResolvedConfigData, nil
	}
	log.Debugf("ResolveCycle: pending vars: %v", pending)
	for len(pending) > 0 {
		previous := pending
		tpl, values, err := c.readTemplate(data)
		if err != nil {
			log.Errorf("resolveCycle: fails readTemplate. Err: %v. Data:%s", err, data)
			return "", fmt.Errorf("fails to read template ResolveCycle. Err: %w", err)
		}
		data = RemoveTypeMarks(RemoveQuotesForVars(c.executeTemplate(tpl, values)))
		pending = c.GetVars(data)
		if len(pending) == len(previous) {
			return partialResolvedConfigData, fmt.Errorf("not resolved cycle vars: %v. Err: %w", pending, ErrCycleVars)
		}
	}
	return data, nil
}

// readTemplate returns the template of data, whose vars must be unquoted
// (A = {{B}}), and the values it defines.
func (c *ConfigRender) readTemplate(data string) (*fasttemplate.Template, map[string]interface{}, error) {
	tpl, err := fasttemplate.NewTemplate(data, startTag, endTag)
	if err != nil {
		return nil, nil, fmt.Errorf("fail to load template. Err:%w", err)
	}
	out := quoteVars(data)
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(out)), toml.Parser()); err != nil {
		return nil, nil, fmt.Errorf("error parsing template values. Content: %s. Err: %w", out, err)
	}
	return tpl, k.All(), nil
}

func quoteVars(data string) string {
	return unquotedVarRe.ReplaceAllString(data, `= "{{${1}:int}}"`)
}

func RemoveQuotesForVars(data string) string {
	return quotedVarRe.ReplaceAllStringFunc(data, func(match string) string {
		submatch := quotedVarRe.FindStringSubmatch(match)
		if len(submatch) > 1 {
			return "= " + composeVarKeyForTemplate(strings.Split(submatch[1], ":")[0])
		}
		return match
	})
}

func RemoveTypeMarks(data string) string {
	return typeMarkRe.ReplaceAllStringFunc(data, func(match string) string {
		submatch := typeMarkRe.FindStringSubmatch(match)
		if len(submatch) > 1 {
			return composeVarKeyForTemplate(strings.Split(submatch[1], ":")[0])
		}
		return match
	})
}

// executeTemplate fills the vars with a value, leaving the others as {{Var}}
func (c *ConfigRender) executeTemplate(tpl *fasttemplate.Template, data map[string]interface{}) string {
	return tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if v, ok := c.findTagInEnvironment(tag); ok {
			return w.Write([]byte(v))
		}
		if v, ok := data[tag]; ok {
			return fmt.Fprintf(w, "%v", v)
		}
		return w.Write([]byte(composeVarKeyForTemplate(tag)))
	})
}

// unresolvedVars returns the vars of tpl without a value, once each
func (c *ConfigRender) unresolvedVars(tpl *fasttemplate.Template, data map[string]interface{}, useEnv bool) []string {
	var unresolved []string
	tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if useEnv {
			if _, ok := c.findTagInEnvironment(tag); ok {
				return 0, nil
			}
		}
		if _, ok := data[tag]; !ok && !contains(unresolved, tag) {
			unresolved = append(unresolved, tag)
		}
		return 0, nil
	})
	return unresolved
}

func contains(vars []string, search string) bool {
	for _, v := range vars {
		if v == search {
			return true
		}
	}
	return false
}

// GetVars returns the vars in configData
func (c *ConfigRender) GetVars(configData string) []string {
	tpl, err := fasttemplate.NewTemplate(configData, startTag, endTag)
	if err != nil {
		return []string{}
	}
	var vars []string
	tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		vars = append(vars, tag)
		return 0, nil
	})
	return vars
}

func (c *ConfigRender) findTagInEnvironment(tag string) (string, bool) {
	return c.LookupEnvFunc(c.EnvPrefix + "_" + strings.ReplaceAll(tag, ".", "_"))
}

func composeVarKeyForTemplate(key string) string {
	return startTag + key + endTag
}

func readFileToString(filename string) (string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func convertFileToToml(fileData string, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case "json":
		k := koanf.New(".")
		err := k.Load(rawbytes.Provider([]byte(fileData)), json.Parser())
		if err != nil {
			return fileData, fmt.Errorf("error loading json file. Err: %w", err)
		}
		tomlData, err := toml.Parser().Marshal(k.Raw())
		if err != nil {
			return fileData, fmt.Errorf("error converting json to toml. Err: %w", err)
		}
		return string(tomlData), nil
	case "yml", "yaml", "ini":
		return fileData, fmt.Errorf("cant convert from %s to TOML. Err: %w", fileType, ErrUnsupportedConfigFileType)
	default:
		log.Warnf("filetype %s unknown, assuming is a TOML file", fileType)
		return fileData, nil
	}
}
