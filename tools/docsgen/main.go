package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/bomctl/internal/command"
)

// Extras holds the hand written parts of the docs that the command tree does
// not carry.
type Extras struct {
	Subcommands map[string]Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Flag struct {
	ID          string
	Syntax      string
	Description string
	Default     string
	Env         string
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type TemplateData struct {
	Subcommand
	ID      string
	IDUpper string
	Short   string
	Usage   string
	Flags   []Flag
	Date    string
	Version string
}

type Outputs struct {
	Template string
	Folder   string
	Prefix   string
	Suffix   string
}

const mdTemplate = `# bomctl {{ .ID }}

{{ .Short }}

## Usage

` + "```" + `
{{ .Usage }}
` + "```" + `
{{ if .Description }}
{{ .Description }}
{{ end }}
## Flags

| Flag | Description | Default |
|---|---|---|
{{ range .Flags }}| ` + "`{{ .Syntax }}`" + ` | {{ .Description }}{{ if .Env }} (env ` + "`{{ .Env }}`" + `){{ end }} | {{ .Default }} |
{{ end }}{{ if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}

` + "```" + `
{{ .Command }}
` + "```" + `
{{ end }}{{ end }}{{ range .Notes }}
> {{ . }}
{{ end }}
_bomctl {{ .Version }}, {{ .Date }}_
`

const tldrTemplate = `# bomctl {{ .ID }}

> {{ .Short }}.
{{ range .Examples }}
- {{ .Description }}:

` + "`{{ .Command }}`" + `
{{ end }}`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(1)
	}
	docs := os.Args[1]

	var extras Extras
	if data, err := os.ReadFile(filepath.Join(docs, "templates", "bomctl.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &extras); err != nil {
			panic(err)
		}
	}

	app, err := command.InitApp(context.Background(), []string{"bomctl"})
	if err != nil {
		panic(err)
	}

	types := []Outputs{
		{Template: mdTemplate, Folder: filepath.Join(docs, "commands"), Suffix: ".md"},
		{Template: tldrTemplate, Folder: filepath.Join(docs, "tldr"), Prefix: "bomctl-", Suffix: ".md"},
	}

	for _, sub := range app.Commands {
		metadata := TemplateData{
			Subcommand: extras.Subcommands[sub.Name],
			ID:         sub.Name,
			IDUpper:    strings.ToUpper(sub.Name),
			Short:      sub.Usage,
			Usage:      sub.UsageText,
			Flags:      flags(sub),
			Date:       time.Now().Format("January 2, 2006"),
			Version:    getVersion(),
		}

		for _, t := range types {
			if err := os.MkdirAll(t.Folder, 0755); err != nil {
				panic(err)
			}

			path := filepath.Join(t.Folder, t.Prefix+sub.Name+t.Suffix)
			file, err := os.Create(path)
			if err != nil {
				panic(err)
			}
			fmt.Println("Generating", path)

			tmpl := template.Must(template.New(sub.Name).Parse(t.Template))
			if err := tmpl.Execute(file, metadata); err != nil {
				panic(err)
			}

			file.Close()
		}
	}
}

// flags describes the visible flags of cmd, sorted by name.
func flags(cmd *cli.Command) []Flag {
	var out []Flag
	for _, f := range cmd.Flags {
		if vf, ok := f.(cli.VisibleFlag); ok && !vf.IsVisible() {
			continue
		}

		names := f.Names()
		syntax := make([]string, 0, len(names))
		for _, n := range names {
			if len(n) == 1 {
				syntax = append(syntax, "-"+n)
			} else {
				syntax = append(syntax, "--"+n)
			}
		}

		flag := Flag{ID: names[0], Syntax: strings.Join(syntax, ", ")}
		if df, ok := f.(cli.DocGenerationFlag); ok {
			flag.Description = df.GetUsage()
			flag.Default = df.GetDefaultText()
			flag.Env = strings.Join(df.GetEnvVars(), ", ")
		}
		out = append(out, flag)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
