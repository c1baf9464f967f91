package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/eringen/kilobite"
	"github.com/eringen/kilobite/scaffold"
	"github.com/eringen/kilobite/siteconfig"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	SiteName string
	Date     string
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <dir>",
		Short: "Create a new Kilobite site",
		Example: `  kilobite init myblog
  kilobite init ~/sites/small-bites`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0], cmd.OutOrStdout())
		},
	}
}

func runInit(dir string, out io.Writer) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("directory %q already exists and is not empty", dir)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	data := scaffoldData{
		SiteName: toTitle(filepath.Base(filepath.Clean(dir))),
		Date:     time.Now().Format(time.DateOnly),
	}
	fmt.Fprintf(out, "Creating new Kilobite site: %s\n\n", dir)

	const root = "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, filepath.FromSlash(path))
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, rel), ".tmpl")
		switch filepath.Base(outPath) {
		case "dotenv":
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		case "gitignore":
			outPath = filepath.Join(filepath.Dir(outPath), ".gitignore")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		body, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(body))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		fmt.Fprintf(out, "  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	sitePath := filepath.Join(dir, kilobite.DefaultSiteFile)
	if err := writeSiteFile(sitePath, data.SiteName); err != nil {
		return err
	}
	fmt.Fprintf(out, "  created %s\n", sitePath)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  cd %s\n", dir)
	fmt.Fprintln(out, "  kilobite serve --watch")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Edit %s to change the title, navigation and hero.\n", kilobite.DefaultSiteFile)
	fmt.Fprintln(out, "Set KILOBITE_ADMIN_PASSWORD and KILOBITE_SESSION_SECRET to enable /admin/.")
	return nil
}

// subscribePath is the built-in sign-up endpoint new sites post to.
const subscribePath = "/subscribe/"

// writeSiteFile writes the built-in site configuration retitled for the new
// site, with the subscribe form wired to the built-in endpoint.
func writeSiteFile(path, title string) error {
	cfg := siteconfig.DefaultConfig()
	cfg.Title = title
	if cfg.Subscribe != nil {
		cfg.Subscribe.FormURL = subscribePath
	}
	site, err := siteconfig.New(cfg)
	if err != nil {
		return err
	}
	body, err := yaml.Marshal(site)
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o644)
}

// toTitle converts a directory name to a display title.
// e.g. "my-blog" -> "My Blog", "small_bites" -> "Small Bites"
func toTitle(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
