package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nxbin/yaz0"
)

var (
	yaz0CompressLevel int
	yaz0DataAlignment uint32
)

func init() {
	cmd := newYaz0Cmd()
	rootCmd.AddCommand(cmd)
}

func newYaz0Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yaz0",
		Short: "Compress and decompress Yaz0 streams",
	}

	compress := &cobra.Command{
		Use:   "compress <in> <out>",
		Short: "Compress a file into a Yaz0 stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runYaz0Compress(args)
		},
	}
	compress.Flags().
		IntVar(&yaz0CompressLevel, "level", 7, "Compression level (6-9, higher is slower and tighter)")
	compress.Flags().
		Uint32Var(&yaz0DataAlignment, "alignment", 0, "Decompressed-buffer alignment hint")
	cmd.AddCommand(compress)

	decompress := &cobra.Command{
		Use:   "decompress <in> <out>",
		Short: "Decompress a Yaz0 stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runYaz0Decompress(args)
		},
	}
	cmd.AddCommand(decompress)

	info := &cobra.Command{
		Use:   "info <in>",
		Short: "Print a Yaz0 stream's header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runYaz0Info(args)
		},
	}
	cmd.AddCommand(info)

	return cmd
}

func runYaz0Compress(args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	printVerbose("Compressing %d bytes at level %d\n", len(src), yaz0CompressLevel)
	out := yaz0.Compress(src, yaz0.CompressOptions{
		Level:         yaz0CompressLevel,
		DataAlignment: yaz0DataAlignment,
	})

	if err := os.WriteFile(args[1], out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", args[1], err)
	}
	printInfo("%s -> %s (%d -> %d bytes)\n", args[0], args[1], len(src), len(out))
	return nil
}

func runYaz0Decompress(args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	out, err := yaz0.Decompress(src)
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", args[0], err)
	}

	if err := os.WriteFile(args[1], out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", args[1], err)
	}
	printInfo("%s -> %s (%d -> %d bytes)\n", args[0], args[1], len(src), len(out))
	return nil
}

func runYaz0Info(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	header, ok := yaz0.GetHeader(data)
	if !ok {
		return fmt.Errorf("%s is not a Yaz0 stream", args[0])
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":              args[0],
			"uncompressedSize":  header.UncompressedSize,
			"dataAlignment":     header.DataAlignment,
			"compressedSize":    len(data),
		})
	}

	printInfo("Uncompressed size: %d\n", header.UncompressedSize)
	printInfo("Data alignment:    %d\n", header.DataAlignment)
	printInfo("Compressed size:   %d\n", len(data))
	return nil
}
