package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	bin "github.com/joshuapare/nxbin/internal/binary"
	"github.com/joshuapare/nxbin/sarc"
	"github.com/joshuapare/nxbin/yaz0"
)

var (
	sarcOutDir       string
	sarcMinAlignment uint32
	sarcBigEndian    bool
)

func init() {
	cmd := newSarcCmd()
	rootCmd.AddCommand(cmd)
}

func newSarcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sarc",
		Short: "List, extract, and build SARC archives",
	}

	list := &cobra.Command{
		Use:   "list <archive>",
		Short: "List the files in a SARC archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSarcList(args)
		},
	}
	cmd.AddCommand(list)

	extract := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract every file from a SARC archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSarcExtract(args)
		},
	}
	extract.Flags().StringVar(&sarcOutDir, "out", ".", "Directory to extract into")
	cmd.AddCommand(extract)

	create := &cobra.Command{
		Use:   "create <out-archive> <file>...",
		Short: "Build a SARC archive from a list of files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSarcCreate(args)
		},
	}
	create.Flags().
		Uint32Var(&sarcMinAlignment, "min-alignment", 4, "Minimum data alignment (power of two)")
	create.Flags().BoolVar(&sarcBigEndian, "big-endian", false, "Emit a big-endian archive")
	cmd.AddCommand(create)

	return cmd
}

// openSarc loads a SARC archive from path, transparently unwrapping a
// Yaz0 compression layer if present.
func openSarc(path string) (*sarc.Sarc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if yaz0.IsYaz0(data) {
		printVerbose("%s is Yaz0-compressed, decompressing\n", path)
		data, err = yaz0.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
	}
	return sarc.New(data)
}

func runSarcList(args []string) error {
	archive, err := openSarc(args[0])
	if err != nil {
		return err
	}

	files, err := archive.Files()
	if err != nil {
		return fmt.Errorf("listing %s: %w", args[0], err)
	}

	if jsonOut {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = f.Name
		}
		return printJSON(map[string]interface{}{"archive": args[0], "files": names})
	}

	for _, f := range files {
		printInfo("%s (%d bytes)\n", colorize(ansiCyan, f.Name), len(f.Data))
	}
	return nil
}

func runSarcExtract(args []string) error {
	archive, err := openSarc(args[0])
	if err != nil {
		return err
	}

	count := 0
	err = archive.IterFiles(func(f sarc.File) error {
		dest := filepath.Join(sarcOutDir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", f.Name, err)
		}
		if err := os.WriteFile(dest, f.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		printVerbose("extracted %s\n", f.Name)
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("extracting %s: %w", args[0], err)
	}

	printInfo("Extracted %d file(s) to %s\n", count, sarcOutDir)
	return nil
}

func runSarcCreate(args []string) error {
	outPath := args[0]
	inputs := args[1:]

	w := sarc.NewWriter()
	if err := w.SetMinAlignment(sarcMinAlignment); err != nil {
		return fmt.Errorf("setting minimum alignment: %w", err)
	}
	if sarcBigEndian {
		w.Endian = bin.BigEndian
	}

	sort.Strings(inputs)
	for _, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		name := filepath.Base(path)
		w.SetFile(name, data)
		printVerbose("added %s (%d bytes)\n", name, len(data))
	}

	_, out, err := w.Write()
	if err != nil {
		return fmt.Errorf("building archive: %w", err)
	}

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	printInfo("Wrote %s (%d file(s), %d bytes)\n", outPath, w.NumFiles(), len(out))
	return nil
}
