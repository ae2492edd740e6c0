package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job is a compilation job description loaded from a YAML file. It covers
// the same surface as the compile command's flags; flags that were set
// explicitly on the command line take precedence over job-file values.
type Job struct {
	Expressions  []string `yaml:"expressions"`
	Variables    []string `yaml:"variables"`
	Functions    []string `yaml:"functions"`
	OptLevel     *int     `yaml:"opt_level"`
	Workspace    string   `yaml:"workspace"`
	FunctionName string   `yaml:"fun_name"`
}

// LoadJob reads and strictly decodes a YAML job file. Unknown fields are an
// error so that typos fail loudly instead of being silently ignored.
func LoadJob(path string) (*Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening job file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var job Job
	if err := dec.Decode(&job); err != nil {
		return nil, fmt.Errorf("parsing job file %s: %w", path, err)
	}
	return &job, nil
}

// ReadExpressions reads one expression per line, skipping blank lines and
// '#' comment lines.
func ReadExpressions(r io.Reader) ([]string, error) {
	var exprs []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return exprs, nil
}

// readInputFiles collects expressions from the given paths in order.
// The path "-" reads from stdin.
func readInputFiles(stdin io.Reader, paths []string) ([]string, error) {
	var exprs []string
	for _, path := range paths {
		var r io.Reader
		if path == "-" {
			r = stdin
		} else {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("opening input file: %w", err)
			}
			defer f.Close()
			r = f
		}
		part, err := ReadExpressions(r)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		exprs = append(exprs, part...)
	}
	return exprs, nil
}
