package cmd

import (
	"github.com/named-data/ndnc/std/utils"
	"github.com/named-data/ndnc/tools"
	"github.com/spf13/cobra"
)

const banner = `
  _   _ ____  _   _
 | \ | |  _ \| \ | | ___
 |  \| | | | |  \| |/ __|
 | |\  | |_| | |\  | (__
 |_| \_|____/|_| \_|\___|

Named Data Networking Client Tools
`

var CmdNDNc = &cobra.Command{
	Use:     "ndnc",
	Short:   "Named Data Networking Client Tools",
	Long:    banner[1:],
	Version: utils.NDNcVersion,
}

func init() {
	cobra.EnableCommandSorting = false
	CmdNDNc.Root().CompletionOptions.HiddenDefaultCmd = true
	CmdNDNc.PersistentFlags().BoolP("help", "h", false, "Print usage")
	CmdNDNc.PersistentFlags().Lookup("help").Hidden = true

	CmdNDNc.AddGroup(&cobra.Group{ID: "tools", Title: "Debug Tools"})
	CmdNDNc.AddCommand(tools.CmdMatch())
	CmdNDNc.AddCommand(tools.CmdLoopback())
}
