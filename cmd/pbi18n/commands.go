package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/blenderbox/pbi18n"
	"github.com/blenderbox/pbi18n/cache"
	"github.com/blenderbox/pbi18n/pocketbase"
)

func newReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <language> <namespace>",
		Short: "Print the translations of a namespace as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, cleanup, err := a.newBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			translations, err := b.Read(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(translations)
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var languages []string

	cmd := &cobra.Command{
		Use:   "create <namespace> <key> [value]",
		Short: "Add a missing key to one or more languages",
		Long: `Add a missing key to the namespace of every --lang. Collections are
created on first use. Without a value the key itself is stored.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, cleanup, err := a.newBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := b.Create(cmd.Context(), languages, args[0], args[1], args[2:]...); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "created %q in %d language(s)\n", args[1], len(languages))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&languages, "lang", nil, "target language, repeatable")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var language, namespace string

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Seed a namespace from an i18next resource file",
		Long: `Seed a namespace from an i18next JSON resource file. Nested objects are
flattened with "." between segments. Keys that already exist and keys with
an empty or null value are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) // #nosec G304 - CLI reads the user-specified file
			if err != nil {
				return fmt.Errorf("reading resource file: %w", err)
			}
			resources, err := parseResources(data)
			if err != nil {
				return err
			}

			b, cleanup, err := a.newBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			existing, err := b.Read(cmd.Context(), language, namespace)
			if err != nil && !errors.Is(err, pocketbase.ErrNotFound) {
				return err
			}

			created, skipped, empty := 0, 0, 0
			for _, key := range slices.Sorted(maps.Keys(resources)) {
				if _, ok := existing[key]; ok {
					skipped++
					continue
				}
				// The translation field is required, so an empty value
				// would be rejected by PocketBase.
				if resources[key] == "" {
					empty++
					continue
				}
				if err := b.Create(cmd.Context(), []string{language}, namespace, key, resources[key]); err != nil {
					return fmt.Errorf("creating %q: %w", key, err)
				}
				created++
			}

			fmt.Fprintf(a.stderr, "imported %d key(s) into %s, skipped %d existing, %d empty\n",
				created, pbi18n.CollectionName(language, namespace), skipped, empty)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "lang", "", "language of the resource file")
	cmd.Flags().StringVar(&namespace, "ns", "", "namespace to seed")
	_ = cmd.MarkFlagRequired("lang")
	_ = cmd.MarkFlagRequired("ns")
	return cmd
}

// parseResources flattens an i18next resource file into key/value pairs.
func parseResources(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing resource file: %w", err)
	}

	out := make(map[string]string)
	flatten("", raw, out)
	return out, nil
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func newExportCmd(a *app) *cobra.Command {
	var languages, namespaces []string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of namespaces",
		Long: `Read every --lang/--ns pair and write the loaded collections as one JSON
snapshot, to stdout or to --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, cleanup, err := a.newBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			for _, lang := range languages {
				for _, ns := range namespaces {
					if _, err := b.Read(cmd.Context(), lang, ns); err != nil {
						return fmt.Errorf("reading %s: %w", pbi18n.CollectionName(lang, ns), err)
					}
				}
			}

			exporter := cache.NewExporter(b.Store())
			metadata := map[string]string{
				"pocketbase_url": a.cfg.PocketBase.URL,
				"generator":      pbi18n.UserAgent(),
			}
			if output == "" {
				return exporter.Export(a.stdout, metadata)
			}
			if err := exporter.ExportToFile(output, metadata); err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&languages, "lang", nil, "language, repeatable")
	cmd.Flags().StringSliceVar(&namespaces, "ns", nil, "namespace, repeatable")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("lang")
	_ = cmd.MarkFlagRequired("ns")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", pbi18n.Name, pbi18n.FullVersion())
			if pbi18n.GitCommit != "unknown" && pbi18n.GitCommit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", pbi18n.GitCommit)
			}
			if pbi18n.BuildDate != "unknown" && pbi18n.BuildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", pbi18n.BuildDate)
			}
		},
	}
}
