package commands

import (
	"bytes"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type extraFile struct {
	Commands []extraCommand `yaml:"commands"`
}

type extraCommand struct {
	Name        string   `yaml:"name"`
	Task        string   `yaml:"task"`
	Description string   `yaml:"description"`
	Args        []string `yaml:"args"`
}

// ParseExtra decodes a list of additional wrapper commands:
//
//	commands:
//	  - name: release
//	    task: assembleRelease
//	    description: Build release APK
//	    args: [--stacktrace]
func ParseExtra(data []byte) ([]Entry, error) {
	var file extraFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(&file)
	if eris.Is(err, io.EOF) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "failed to decode extra commands")
	}

	result := make([]Entry, len(file.Commands))
	for idx, cmd := range file.Commands {
		desc := cmd.Description
		if desc == "" {
			desc = "Run the Gradle task " + cmd.Task
		}

		result[idx] = Entry{
			Name: cmd.Name,
			Kind: RunTask,
			Task: cmd.Task,
			Args: cmd.Args,
			Desc: desc,
		}
	}

	return result, nil
}

// LoadExtra reads extra commands from the YAML file at path
func LoadExtra(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", path)
	}

	entries, err := ParseExtra(data)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to parse %s", path)
	}

	return entries, nil
}
