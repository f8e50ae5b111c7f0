package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nxbin/aamp"
	"github.com/joshuapare/nxbin/names"
)

var aampUseNames bool

func init() {
	cmd := newAampCmd()
	rootCmd.AddCommand(cmd)
}

func newAampCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aamp",
		Short: "Inspect AAMP parameter archives",
	}

	dump := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print an AAMP document's tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAampDump(args)
		},
	}
	dump.Flags().
		BoolVar(&aampUseNames, "names", true, "Recover object/parameter names with the BOTW name table")
	cmd.AddCommand(dump)

	return cmd
}

func runAampDump(args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	pio, err := aamp.FromBinary(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	var table *names.Table
	if aampUseNames {
		table = names.Default()
	}

	if jsonOut {
		return printJSON(aampListToJSON(pio.ParameterList, table, 0))
	}

	printInfo("ParameterIO type=%q version=%d\n", pio.Type, pio.Version)
	printAampList(pio.ParameterList, table, 0, 0)
	return nil
}

func resolveName(hash uint32, index int, parentHash uint32, table *names.Table) string {
	if table == nil {
		return fmt.Sprintf("0x%08X", hash)
	}
	if name, ok := table.GetName(hash, index, parentHash); ok {
		return name
	}
	return fmt.Sprintf("0x%08X", hash)
}

func printAampList(list *aamp.ParameterList, table *names.Table, depth int, parentHash uint32) {
	indent := func() {
		for i := 0; i < depth; i++ {
			printInfo("  ")
		}
	}

	i := 0
	list.Lists.Each(func(name aamp.Name, child *aamp.ParameterList) {
		indent()
		printInfo("[%s]\n", colorize(ansiYellow, resolveName(name.Hash, i, parentHash, table)))
		printAampList(child, table, depth+1, name.Hash)
		i++
	})

	j := 0
	list.Objects.Each(func(name aamp.Name, obj *aamp.ParameterObject) {
		indent()
		printInfo("<%s>\n", colorize(ansiYellow, resolveName(name.Hash, j, parentHash, table)))
		obj.Params.Each(func(pname aamp.Name, p *aamp.Parameter) {
			indent()
			printInfo("  %s = %s\n", colorize(ansiCyan, resolveName(pname.Hash, 0, name.Hash, table)), p.Type())
		})
		j++
	})
}

func aampListToJSON(list *aamp.ParameterList, table *names.Table, parentHash uint32) interface{} {
	lists := map[string]interface{}{}
	i := 0
	list.Lists.Each(func(name aamp.Name, child *aamp.ParameterList) {
		lists[resolveName(name.Hash, i, parentHash, table)] = aampListToJSON(child, table, name.Hash)
		i++
	})

	objects := map[string]interface{}{}
	j := 0
	list.Objects.Each(func(name aamp.Name, obj *aamp.ParameterObject) {
		params := map[string]interface{}{}
		obj.Params.Each(func(pname aamp.Name, p *aamp.Parameter) {
			params[resolveName(pname.Hash, 0, name.Hash, table)] = p.Type().String()
		})
		objects[resolveName(name.Hash, j, parentHash, table)] = params
		j++
	})

	return map[string]interface{}{"lists": lists, "objects": objects}
}
