// Command auscoutd is a minimal host for AuScoutDS: a Pebble-backed
// store plus a readline debug console, wiring commands.Dispatcher to
// host.PebbleHost the way a real key-value server's module-loading
// path would.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/audioscout/auscoutds/auscout"
	"github.com/audioscout/auscoutds/commands"
	"github.com/audioscout/auscoutds/host"
	"github.com/audioscout/auscoutds/utils"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("add"),
	readline.PcItem("addtrack"),
	readline.PcItem("del"),
	readline.PcItem("lookup"),
	readline.PcItem("size"),
	readline.PcItem("count"),
	readline.PcItem("delkey"),
	readline.PcItem("list"),
	readline.PcItem("index"),
	readline.PcItem("memory"),
	readline.PcItem("config"),
	readline.PcItem("dump"),
	readline.PcItem("snapshot"),
	readline.PcItem("restore"),
	readline.PcItem("exit"),
	readline.PcItem("quit"),
)

func filterInput(r rune) (rune, bool) {
	if r == readline.CharCtrlZ {
		return r, false
	}
	return r, true
}

func main() {
	dir := flag.String("dir", "auscoutd.db", "pebble data directory")
	metricsAddr := flag.String("metrics", ":9494", "prometheus /metrics listen address")
	flag.Parse()

	log := utils.NewDefaultLogger(slog.LevelInfo)

	ph, err := host.OpenPebbleHost(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer ph.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(ph.Collector())
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		_ = http.ListenAndServe(*metricsAddr, mux)
	}()

	disp := commands.NewDispatcher(ph, auscout.Options{}, log)

	l, err := readline.NewEx(&readline.Config{
		Prompt:              "auscout> ",
		HistoryFile:         "/tmp/auscoutd_history.tmp",
		AutoComplete:        completer,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		cmd := args[0]
		args = args[1:]

		if err := dispatch(disp, cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s\n", err)
		}
	}
}

func dispatch(disp *commands.Dispatcher, cmd string, args []string) error {
	switch cmd {
	case "exit", "quit":
		os.Exit(0)
	case "add":
		return cmdAdd(disp, args, false)
	case "addtrack":
		return cmdAdd(disp, args, true)
	case "del":
		return cmdDel(disp, args)
	case "lookup":
		return cmdLookup(disp, args)
	case "size":
		return cmdIntCommand(args, disp.CommandSize)
	case "count":
		return cmdIntCommand(args, disp.CommandCount)
	case "delkey":
		return disp.CommandDelKey(arg(args, 0))
	case "list":
		return cmdIntCommand(args, disp.CommandList)
	case "index":
		return cmdIntCommand(args, disp.CommandIndex)
	case "memory":
		return cmdUintCommand(args, disp.CommandMemory)
	case "config":
		fmt.Printf("%+v\n", disp.CommandConfig(arg(args, 0)))
		return nil
	case "dump":
		recs, err := disp.CommandDump(arg(args, 0))
		if err != nil {
			return err
		}
		for _, r := range recs {
			fmt.Println(hex.EncodeToString(r))
		}
		return nil
	case "snapshot":
		return disp.Snapshot(arg(args, 0))
	case "restore":
		return disp.Restore(arg(args, 0))
	default:
		return fmt.Errorf("command unknown: %s", cmd)
	}
	return nil
}

// arg returns args[i], or "" if args is too short -- the dispatcher
// methods treat "" as a missing argument and report it themselves.
func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func cmdIntCommand(args []string, fn func(string) (int64, error)) error {
	v, err := fn(arg(args, 0))
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}

func cmdUintCommand(args []string, fn func(string) (uint64, error)) error {
	v, err := fn(arg(args, 0))
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}

// cmdAdd handles `add key hexhashbytes [id]` and
// `addtrack key hexhashbytes description [id]`. Hash bytes are
// hex-encoded on this console since a terminal line can't carry raw
// binary network-order words; id and threshold arguments are forwarded
// as raw text -- arity and parse errors are the dispatcher's to raise.
func cmdAdd(disp *commands.Dispatcher, args []string, track bool) error {
	key := arg(args, 0)
	hashBytes, err := hex.DecodeString(arg(args, 1))
	if err != nil {
		return err
	}

	var descr, idArg string
	if track {
		descr = arg(args, 2)
		idArg = arg(args, 3)
	} else {
		idArg = arg(args, 2)
	}

	var id int64
	if track {
		id, err = disp.CommandAddTrack(key, hashBytes, descr, idArg)
	} else {
		id, err = disp.CommandAdd(key, hashBytes, idArg)
	}
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func cmdDel(disp *commands.Dispatcher, args []string) error {
	n, err := disp.CommandDel(arg(args, 0), arg(args, 1))
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func cmdLookup(disp *commands.Dispatcher, args []string) error {
	hashBytes, err := hex.DecodeString(arg(args, 1))
	if err != nil {
		return err
	}
	toggleBytes, err := hex.DecodeString(arg(args, 2))
	if err != nil {
		return err
	}

	matches, err := disp.CommandLookup(arg(args, 0), hashBytes, toggleBytes, arg(args, 3))
	if err != nil {
		return err
	}
	for _, m := range matches {
		fmt.Println(m.Reply())
	}
	return nil
}
