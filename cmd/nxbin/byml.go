package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nxbin/byml"
)

func init() {
	cmd := newBymlCmd()
	rootCmd.AddCommand(cmd)
}

func newBymlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "byml",
		Short: "Inspect BYML documents",
	}

	dump := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print a BYML document's tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBymlDump(args)
		},
	}
	cmd.AddCommand(dump)

	return cmd
}

func runBymlDump(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	doc, err := byml.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	if jsonOut {
		return printJSON(bymlToJSON(doc))
	}

	printBymlValue(doc, 0)
	return nil
}

// bymlToJSON converts a Value tree into plain Go maps/slices/scalars
// suitable for encoding/json, since Value itself carries no json tags
//.
func bymlToJSON(v byml.Value) interface{} {
	switch v.Type() {
	case byml.TypeNull:
		return nil
	case byml.TypeString:
		s, _ := v.GetString()
		return s
	case byml.TypeBool:
		b, _ := v.GetBool()
		return b
	case byml.TypeInt:
		n, _ := v.GetInt()
		return n
	case byml.TypeUInt:
		n, _ := v.GetUInt()
		return n
	case byml.TypeInt64:
		n, _ := v.GetInt64()
		return n
	case byml.TypeUInt64:
		n, _ := v.GetUInt64()
		return n
	case byml.TypeFloat:
		f, _ := v.GetFloat()
		return f
	case byml.TypeDouble:
		f, _ := v.GetDouble()
		return f
	case byml.TypeBinary:
		b, _ := v.GetBinary()
		return base64.StdEncoding.EncodeToString(b)
	case byml.TypeArray:
		arr, _ := v.GetArray()
		out := make([]interface{}, len(arr))
		for i, item := range arr {
			out[i] = bymlToJSON(item)
		}
		return out
	case byml.TypeDictionary:
		dict, _ := v.GetDictionary()
		out := make(map[string]interface{}, len(dict))
		for k, item := range dict {
			out[k] = bymlToJSON(item)
		}
		return out
	case byml.TypeHash32:
		h, _ := v.GetHash32()
		out := make(map[string]interface{}, len(h))
		for k, item := range h {
			out[strconv.FormatUint(uint64(k), 10)] = bymlToJSON(item)
		}
		return out
	case byml.TypeHash64:
		h, _ := v.GetHash64()
		out := make(map[string]interface{}, len(h))
		for k, item := range h {
			out[strconv.FormatUint(k, 10)] = bymlToJSON(item)
		}
		return out
	default:
		return nil
	}
}

func printBymlValue(v byml.Value, depth int) {
	indent := func() {
		for i := 0; i < depth; i++ {
			printInfo("  ")
		}
	}

	switch v.Type() {
	case byml.TypeArray:
		arr, _ := v.GetArray()
		printInfo("[\n")
		for _, item := range arr {
			indent()
			printInfo("  ")
			printBymlValue(item, depth+1)
		}
		indent()
		printInfo("]\n")
	case byml.TypeDictionary:
		dict, _ := v.GetDictionary()
		keys := make([]string, 0, len(dict))
		for k := range dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		printInfo("{\n")
		for _, k := range keys {
			indent()
			printInfo("  %s: ", colorize(ansiCyan, fmt.Sprintf("%q", k)))
			printBymlValue(dict[k], depth+1)
		}
		indent()
		printInfo("}\n")
	default:
		printInfo("%v\n", bymlToJSON(v))
	}
}
