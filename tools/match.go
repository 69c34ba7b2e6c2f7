package tools

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	enc "github.com/named-data/ndnc/std/encoding"
	"github.com/named-data/ndnc/std/log"
	spec "github.com/named-data/ndnc/std/ndn/spec_2014"
	"github.com/named-data/ndnc/std/table"
	"github.com/named-data/ndnc/std/types/optional"
	"github.com/named-data/ndnc/std/utils"
	"github.com/named-data/ndnc/std/utils/toolutils"
	"github.com/spf13/cobra"
)

// MatchFile is the registration file read by the match tool.
type MatchFile struct {
	// Logging level
	LogLevel string `json:"log_level" toml:"log_level"`
	// Table bounds
	Table table.Config `json:"table" toml:"table"`
	// Values registered against Interests
	Interests []InterestReg `json:"interests" toml:"interests"`
	// Values registered against bare names
	Names []NameReg `json:"names" toml:"names"`
}

type InterestReg struct {
	Name        string   `json:"name" toml:"name"`
	MinSuffix   *int     `json:"min_suffix" toml:"min_suffix"`
	MaxSuffix   *int     `json:"max_suffix" toml:"max_suffix"`
	Exclude     []string `json:"exclude" toml:"exclude"`
	Publisher   string   `json:"publisher" toml:"publisher"`
	MustBeFresh bool     `json:"must_be_fresh" toml:"must_be_fresh"`
	Value       string   `json:"value" toml:"value"`
}

type NameReg struct {
	Name  string `json:"name" toml:"name"`
	Value string `json:"value" toml:"value"`
}

// Interest builds the Interest described by the registration.
// An exclude entry of "*" stands for a range of any components.
func (r *InterestReg) Interest() (*spec.Interest, error) {
	name, err := enc.NameFromStr(r.Name)
	if err != nil {
		return nil, err
	}

	interest := spec.NewInterest(name)
	if r.MinSuffix != nil {
		interest.MinSuffixComponentsV = optional.Some(*r.MinSuffix)
	}
	if r.MaxSuffix != nil {
		interest.MaxSuffixComponentsV = optional.Some(*r.MaxSuffix)
	}
	interest.MustBeFreshV = r.MustBeFresh

	if len(r.Exclude) > 0 {
		entries := make([]spec.ExcludeEntry, 0, len(r.Exclude))
		for _, s := range r.Exclude {
			if s == "*" {
				entries = append(entries, spec.ExcludeAny())
				continue
			}
			c, err := enc.ComponentFromStr(s)
			if err != nil {
				return nil, err
			}
			entries = append(entries, spec.ExcludeComponent(c))
		}
		interest.ExcludeV = spec.NewExclude(entries...)
		if err := interest.ExcludeV.Validate(); err != nil {
			return nil, err
		}
	}

	if r.Publisher != "" {
		if interest.PublisherKeyDigestV, err = hex.DecodeString(r.Publisher); err != nil {
			return nil, fmt.Errorf("invalid publisher digest %q: %w", r.Publisher, err)
		}
	}
	return interest, nil
}

// Load builds a table holding every registration of the file.
func (f *MatchFile) Load() (*table.InterestTable[string], error) {
	tab := table.NewInterestTable[string]()
	tab.Configure(f.Table)

	for i := range f.Interests {
		reg := &f.Interests[i]
		interest, err := reg.Interest()
		if err != nil {
			return nil, fmt.Errorf("interest %d (%s): %w", i, reg.Name, err)
		}
		if err = tab.AddInterest(interest, reg.Value); err != nil {
			return nil, fmt.Errorf("interest %d (%s): %w", i, reg.Name, err)
		}
	}

	for i, reg := range f.Names {
		name, err := enc.NameFromStr(reg.Name)
		if err != nil {
			return nil, fmt.Errorf("name %d (%s): %w", i, reg.Name, err)
		}
		if err = tab.AddName(name, reg.Value); err != nil {
			return nil, fmt.Errorf("name %d (%s): %w", i, reg.Name, err)
		}
	}
	return tab, nil
}

type MatchTool struct {
	byName    bool
	all       bool
	content   string
	publisher string
}

func CmdMatch() *cobra.Command {
	mt := MatchTool{}

	cmd := &cobra.Command{
		GroupID: "tools",
		Use:     "match FILE NAME...",
		Short:   "Match names against a registration file",
		Long: `Load Interest and name registrations from a YAML file into an
Interest table, then print the registrations each name satisfies.
Names are treated as Data names unless --by-name is given.`,
		Args:    cobra.MinimumNArgs(2),
		Example: `  ndnc match registrations.yml /app/video/v=3 --all`,
		Run:     mt.run,
	}

	cmd.Flags().BoolVar(&mt.byName, "by-name", false, "Match registered names as prefixes instead of Interests against Data")
	cmd.Flags().BoolVarP(&mt.all, "all", "a", false, "Print every match instead of the longest one")
	cmd.Flags().StringVar(&mt.content, "content", "", "Content of the Data, which changes its implicit digest")
	cmd.Flags().StringVar(&mt.publisher, "publisher", "", "Publisher key digest of the Data, in hex")
	return cmd
}

func (mt *MatchTool) String() string {
	return "match"
}

func (mt *MatchTool) run(_ *cobra.Command, args []string) {
	file := MatchFile{}
	toolutils.ReadYaml(&file, args[0])

	level, err := log.ParseLevel(file.LogLevel)
	if err != nil {
		log.Fatal(mt, "Invalid log level", "level", file.LogLevel)
		return
	}
	log.Default().SetLevel(level)

	tab, err := file.Load()
	if err != nil {
		log.Fatal(mt, "Unable to load registrations", "err", err)
		return
	}
	log.Info(mt, "Registrations loaded", "entries", tab.Size(), "names", tab.NameCount())

	if err = mt.match(os.Stdout, tab, args[1:]); err != nil {
		log.Fatal(mt, "Unable to match", "err", err)
	}
}

func (mt *MatchTool) match(w io.Writer, tab *table.InterestTable[string], targets []string) error {
	var publisher []byte
	if mt.publisher != "" {
		var err error
		if publisher, err = hex.DecodeString(mt.publisher); err != nil {
			return fmt.Errorf("invalid publisher digest %q: %w", mt.publisher, err)
		}
	}

	p := toolutils.StatusPrinter{File: w, Padding: 10}
	for _, target := range targets {
		name, err := enc.NameFromStr(target)
		if err != nil {
			return err
		}

		data := spec.NewData(name, []byte(mt.content))
		data.PublisherV = publisher

		var matches []table.Entry[string]
		switch {
		case mt.all && mt.byName:
			matches = tab.MatchAllByName(name)
		case mt.all:
			matches = tab.MatchAll(data)
		case mt.byName:
			if m, ok := tab.MatchOneByName(name); ok {
				matches = append(matches, m)
			}
		default:
			if m, ok := tab.MatchOne(data); ok {
				matches = append(matches, m)
			}
		}

		fmt.Fprintln(w, name)
		if len(matches) == 0 {
			p.Print("match", "none")
		}
		for _, m := range matches {
			kind := utils.If(m.Interest() == nil, "name", "interest")
			label := m.Name().String()
			if m.Interest() != nil {
				label = fmt.Sprint(m.Interest())
			}
			p.Print(kind, fmt.Sprintf("%s value=%s", label, m.Value()))
		}
	}
	return nil
}
