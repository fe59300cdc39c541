package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/busybeaver/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// spaceFlags overrides the search section of the configuration from the command line.
type spaceFlags struct {
	states   []string
	alphabet []string
	finals   []string
	blank    string
}

func (f *spaceFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.states, "states", nil, "state names, comma separated")
	fs.StringSliceVar(&f.alphabet, "alphabet", nil, "tape symbols, comma separated")
	fs.StringSliceVar(&f.finals, "finals", nil, "final states (default: the last state)")
	fs.StringVar(&f.blank, "blank", "", "blank symbol (default: the first symbol)")
}

// apply copies every flag the user set onto cfg.
func (f *spaceFlags) apply(cmd *cobra.Command, cfg *config.SearchConfig) {
	flags := cmd.Flags()
	if flags.Changed("states") && len(f.states) > 0 {
		cfg.States = f.states
		cfg.Start = f.states[0]
		if !flags.Changed("finals") {
			cfg.Finals = []string{f.states[len(f.states)-1]}
		}
	}
	if flags.Changed("alphabet") && len(f.alphabet) > 0 {
		cfg.Alphabet = f.alphabet
		if !flags.Changed("blank") {
			cfg.Blank = f.alphabet[0]
			cfg.Initial = f.alphabet[0]
		}
	}
	if flags.Changed("finals") {
		cfg.Finals = f.finals
	}
	if flags.Changed("blank") {
		cfg.Blank = f.blank
		cfg.Initial = f.blank
	}
}

// parseShard reads "i/n" (zero-based i) as a shard selector.
func parseShard(s string) (int, int, error) {
	i, n, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("shard %q: want i/n", s)
	}
	idx, err := strconv.Atoi(i)
	if err != nil {
		return 0, 0, fmt.Errorf("shard %q: %w", s, err)
	}
	total, err := strconv.Atoi(n)
	if err != nil {
		return 0, 0, fmt.Errorf("shard %q: %w", s, err)
	}
	if total < 1 || idx < 0 || idx >= total {
		return 0, 0, fmt.Errorf("shard %q: index out of range", s)
	}
	return idx, total, nil
}
