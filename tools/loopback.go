package tools

import (
	"fmt"
	"io"
	"os"
	"sync"

	enc "github.com/named-data/ndnc/std/encoding"
	basic_engine "github.com/named-data/ndnc/std/engine/basic"
	"github.com/named-data/ndnc/std/log"
	"github.com/named-data/ndnc/std/ndn"
	spec "github.com/named-data/ndnc/std/ndn/spec_2014"
	"github.com/named-data/ndnc/std/utils"
	"github.com/named-data/ndnc/std/utils/toolutils"
	"github.com/spf13/cobra"
)

// Loopback serves a prefix from a local handler and expresses Interests
// through the same engine.
type Loopback struct {
	configFile string
	content    string
}

func CmdLoopback() *cobra.Command {
	lb := Loopback{}

	cmd := &cobra.Command{
		GroupID: "tools",
		Use:     "loopback PREFIX NAME...",
		Short:   "Express Interests against a local handler",
		Long: `Attach a handler under PREFIX that answers every Interest with a Data
of the same name, then express an Interest for each NAME through the
in-process engine and print how each one was satisfied.
Names outside PREFIX time out.`,
		Args:    cobra.MinimumNArgs(2),
		Example: `  ndnc loopback /app /app/hello /other --config engine.yml`,
		Run:     lb.run,
	}

	cmd.Flags().StringVarP(&lb.configFile, "config", "c", "", "Engine configuration file")
	cmd.Flags().StringVar(&lb.content, "content", "hello", "Content of every reply")
	return cmd
}

func (lb *Loopback) String() string {
	return "loopback"
}

func (lb *Loopback) run(_ *cobra.Command, args []string) {
	config := basic_engine.DefaultConfig()
	if lb.configFile != "" {
		toolutils.ReadYaml(config, lb.configFile)
		if err := config.Validate(); err != nil {
			log.Fatal(lb, "Invalid engine configuration", "err", err)
			return
		}
	}

	level, _ := log.ParseLevel(config.LogLevel)
	log.Default().SetLevel(level)

	engine := basic_engine.NewEngine(basic_engine.NewTimer(), config)
	if err := engine.Start(); err != nil {
		log.Fatal(lb, "Unable to start engine", "err", err)
		return
	}
	defer engine.Stop()

	if err := lb.express(os.Stdout, engine, args[0], args[1:]); err != nil {
		log.Fatal(lb, "Loopback failed", "err", err)
	}
}

func (lb *Loopback) express(w io.Writer, engine *basic_engine.Engine, prefixStr string, names []string) error {
	prefix, err := enc.NameFromStr(prefixStr)
	if err != nil {
		return err
	}

	err = engine.AttachHandler(prefix, func(args ndn.InterestHandlerArgs) {
		data := spec.NewData(args.Interest.Name(), []byte(lb.content))
		if err := args.Reply(data); err != nil {
			log.Warn(lb, "Unable to reply", "err", err, "name", data.Name())
		}
	})
	if err != nil {
		return err
	}
	defer engine.DetachHandler(prefix)

	nonce := utils.ConvertNonce(engine.Timer().Nonce())
	results := make([]ndn.ExpressCallbackArgs, len(names))
	wg := sync.WaitGroup{}
	for i, s := range names {
		name, err := enc.NameFromStr(s)
		if err != nil {
			return err
		}

		interest := spec.NewInterest(name)
		interest.NonceV = nonce
		wg.Add(1)
		err = engine.Express(interest, func(args ndn.ExpressCallbackArgs) {
			results[i] = args
			wg.Done()
		})
		if err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()

	p := toolutils.StatusPrinter{File: w, Padding: 10}
	for i, res := range results {
		fmt.Fprintln(w, names[i])
		p.Print("result", res.Result)
		if res.Result == ndn.InterestResultData {
			p.Print("data", res.Data.Name())
			if d, ok := res.Data.(*spec.Data); ok {
				p.Print("content", string(d.Content()))
			}
		}
	}
	return nil
}
