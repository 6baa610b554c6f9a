// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/woozymasta/bigfile"
	"github.com/woozymasta/bigfile/binio"
	"github.com/woozymasta/bigfile/class"
	"github.com/woozymasta/bigfile/dialect"
	"github.com/woozymasta/bigfile/extract"
	"github.com/woozymasta/bigfile/lz"
	"github.com/woozymasta/bigfile/names"
)

// commands returns a fresh command set; flag values live in closures.
func commands() []*command {
	return []*command{
		infoCommand(),
		extractCommand(),
		roundTripCommand(),
		lzCommand(),
		unlzCommand(),
		crc32Command(),
	}
}

func infoCommand() *command {
	var entries bool

	return &command{
		name:    "info",
		summary: "Print the dialect, platform and pool table of an archive",
		usage:   "info [flags] <archive>",
		minArgs: 1,
		maxArgs: 1,
		flags: func(fs *pflag.FlagSet) {
			fs.BoolVarP(&entries, "entries", "e", false, "list every entry")
		},
		run: func(_ context.Context, e *env, args []string) error {
			a, err := bigfile.Open(args[0], e.readerOptions())
			if err != nil {
				return err
			}

			fmt.Fprintf(e.stdout, "signature: %s\n", a.Signature.Value)
			fmt.Fprintf(e.stdout, "dialect:   %s\n", a.Dialect.Kind)
			fmt.Fprintf(e.stdout, "version:   %s\n", a.Dialect.Version())
			fmt.Fprintf(e.stdout, "platform:  %s (%s)\n", a.Platform, a.Platform.ByteOrder())
			fmt.Fprintf(e.stdout, "pools:     %d\n", len(a.Pools))
			fmt.Fprintf(e.stdout, "entries:   %d\n\n", a.EntryCount())

			tw := tabwriter.NewWriter(e.stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "POOL\tCODEC\tORDER\tENTRIES")
			for i := range a.Pools {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i, a.Pools[i].Codec, a.PoolOrder(i), len(a.Pools[i].Entries))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !entries {
				return nil
			}

			reg := class.Default()
			fmt.Fprintln(e.stdout)
			tw = tabwriter.NewWriter(e.stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "POOL\tOFFSET\tCLASS\tNAME\tSIZE\tSTORED\tDECODER")
			for i := range a.Pools {
				for j := range a.Pools[i].Entries {
					entry := &a.Pools[i].Entries[j]
					decoder := "opaque"
					if _, ok := reg.Lookup(a.Key(entry)); ok {
						decoder = "typed"
					}

					fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%d\t%s\n",
						i, entry.Offset, entry.Class, entry.Name,
						len(entry.LinkHeader)+len(entry.Body), len(entry.Payload), decoder)
				}
			}

			return tw.Flush()
		},
	}
}

func extractCommand() *command {
	var (
		format     string
		fileMode   string
		include    []string
		exclude    []string
		outNames   string
		rawNames   bool
		noManifest bool
	)

	return &command{
		name:    "extract",
		summary: "Write every selected entry to a directory with a BLAKE3 manifest",
		usage:   "extract [flags] <archive> <dir>",
		minArgs: 2,
		maxArgs: 2,
		flags: func(fs *pflag.FlagSet) {
			fs.StringVarP(&format, "format", "f", string(extract.FormatRaw), "output format: raw, yaml, cbor")
			fs.StringVar(&fileMode, "file-mode", string(extract.FileModeAuto), "file creation: auto, truncate, create_only")
			fs.StringArrayVarP(&include, "include", "i", nil, "include pattern matched against <name>.<Class>, may be repeated")
			fs.StringArrayVarP(&exclude, "exclude", "x", nil, "exclude pattern, may be repeated")
			fs.BoolVar(&rawNames, "raw-names", false, "keep names as stored instead of sanitizing them")
			fs.BoolVar(&noManifest, "no-manifest", false, "skip writing "+extract.ManifestName)
			fs.StringVar(&outNames, "out-names", "", "write the known names of the archive to this file")
		},
		run: func(ctx context.Context, e *env, args []string) error {
			a, err := bigfile.Open(args[0], e.readerOptions())
			if err != nil {
				return err
			}

			cfg := e.cfg.Extract
			if e.flags.Changed("format") || cfg.Format == "" {
				cfg.Format = extract.Format(format)
			}
			if e.flags.Changed("file-mode") || cfg.FileMode == "" {
				cfg.FileMode = extract.FileMode(fileMode)
			}
			cfg.Include = append(cfg.Include, include...)
			cfg.Exclude = append(cfg.Exclude, exclude...)
			cfg.RawNames = cfg.RawNames || rawNames
			cfg.NoManifest = cfg.NoManifest || noManifest
			if outNames != "" {
				cfg.OutNames = outNames
			}

			patterns := make([]string, 0, len(cfg.Include)+len(cfg.Exclude))
			patterns = append(patterns, cfg.Include...)
			for _, pattern := range cfg.Exclude {
				patterns = append(patterns, "!"+pattern)
			}

			m, err := extract.Run(ctx, a, args[1], extract.Options{
				Format:     cfg.Format,
				FileMode:   cfg.FileMode,
				Rules:      extract.ParseRules(patterns...),
				MaxWorkers: e.cfg.Workers,
				RawNames:   cfg.RawNames,
				NoManifest: cfg.NoManifest,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(e.stdout, "extracted %d of %d entries to %s\n", len(m.Files), a.EntryCount(), args[1])

			if cfg.OutNames == "" {
				return nil
			}

			return writeNames(e, a, cfg.OutNames)
		},
	}
}

// writeNames saves the known strings of every entry and class name in a.
func writeNames(e *env, a *bigfile.Archive, path string) error {
	list := make([]names.Name, 0, 2*a.EntryCount())
	for i := range a.Pools {
		for j := range a.Pools[i].Entries {
			entry := &a.Pools[i].Entries[j]
			list = append(list, entry.Name, entry.Class)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create names: %w", err)
	}

	n, err := names.Default().Dump(f, list)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close names: %w", cerr)
	}
	if err != nil {
		return err
	}

	e.log.Info("wrote name table", zap.String("path", path), zap.Int("names", n))
	return nil
}

func roundTripCommand() *command {
	var (
		recompress bool
		out        string
	)

	return &command{
		name:    "round-trip",
		summary: "Decode every entry, re-encode the archive and compare bytes",
		usage:   "round-trip [flags] <archive>",
		minArgs: 1,
		maxArgs: 1,
		flags: func(fs *pflag.FlagSet) {
			fs.BoolVar(&recompress, "recompress", false, "re-run the pool codec instead of reusing stored payloads")
			fs.StringVarP(&out, "out", "o", "", "write the re-encoded archive to this path")
		},
		run: func(ctx context.Context, e *env, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}

			opts := bigfile.RoundTripOptions{
				Reader: e.readerOptions(),
				Decode: bigfile.DecodeOptions{MaxWorkers: e.cfg.Workers},
				Writer: bigfile.WriterOptions{Recompress: recompress},
			}
			if p, ok := dialect.PlatformFromPath(args[0]); ok && opts.Reader.Platform == "" {
				opts.Reader.Platform = p.String()
			}

			a, err := bigfile.RoundTrip(ctx, data, opts)
			var divergence *bigfile.DivergenceError
			switch {
			case errors.As(err, &divergence):
				fmt.Fprintf(e.stdout, "diverged at offset %d (original %d bytes, encoded %d bytes)\n",
					divergence.Offset, divergence.Original, divergence.Encoded)
			case err != nil:
				return err
			default:
				opaque := 0
				for i := range a.Pools {
					for j := range a.Pools[i].Entries {
						if class.Unsupported(a.Pools[i].Entries[j].Record) {
							opaque++
						}
					}
				}
				fmt.Fprintf(e.stdout, "ok: %d bytes, %d entries, %d opaque\n", len(data), a.EntryCount(), opaque)
			}

			if out != "" {
				if err := a.WriteFile(out, opts.Writer); err != nil {
					return err
				}
				e.log.Info("wrote re-encoded archive", zap.String("path", out))
			}

			if divergence != nil {
				return &exitError{code: 2}
			}

			return nil
		},
	}
}

// codecFlags are shared by lz and unlz.
type codecFlags struct {
	algorithm string
	order     string
}

func (c *codecFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.algorithm, "algorithm", "a", lz.LZRS.String(), "codec: none, lzrs, lzo, lz4, zlib, lzss")
	fs.StringVar(&c.order, "order", binio.LittleEndian.String(), "frame header byte order")
}

func (c *codecFlags) parse() (lz.Algorithm, binio.ByteOrder, error) {
	alg, err := lz.ParseAlgorithm(c.algorithm)
	if err != nil {
		return 0, 0, err
	}

	order, err := binio.ParseByteOrder(c.order)
	if err != nil {
		return 0, 0, err
	}

	return alg, order, nil
}

func lzCommand() *command {
	var codec codecFlags

	return &command{
		name:    "lz",
		summary: "Compress a file into a codec frame",
		usage:   "lz [flags] [in|-] [out|-]",
		minArgs: 0,
		maxArgs: 2,
		flags:   codec.register,
		run: func(_ context.Context, e *env, args []string) error {
			alg, order, err := codec.parse()
			if err != nil {
				return err
			}

			in, out := streamArgs(args)
			data, err := e.readInput(in)
			if err != nil {
				return err
			}

			frame, err := lz.Compress(alg, data, order)
			if err != nil {
				return err
			}

			if err := e.writeOutput(out, frame); err != nil {
				return err
			}

			e.report(out, "%s: %d -> %d bytes", alg, len(data), len(frame))
			return nil
		},
	}
}

func unlzCommand() *command {
	var codec codecFlags

	return &command{
		name:    "unlz",
		summary: "Decompress a codec frame",
		usage:   "unlz [flags] [in|-] [out|-]",
		minArgs: 0,
		maxArgs: 2,
		flags:   codec.register,
		run: func(_ context.Context, e *env, args []string) error {
			alg, order, err := codec.parse()
			if err != nil {
				return err
			}

			in, out := streamArgs(args)
			frame, err := e.readInput(in)
			if err != nil {
				return err
			}

			data, err := lz.Decompress(alg, frame, order)
			if err != nil {
				return err
			}

			if err := e.writeOutput(out, data); err != nil {
				return err
			}

			e.report(out, "%s: %d -> %d bytes", alg, len(frame), len(data))
			return nil
		},
	}
}

// streamArgs splits optional input and output paths; missing ones mean the
// standard streams.
func streamArgs(args []string) (string, string) {
	var in, out string
	if len(args) > 0 {
		in = args[0]
	}
	if len(args) > 1 {
		out = args[1]
	}

	return in, out
}

// report prints a summary line to stdout unless stdout carries the payload.
func (e *env) report(out, format string, args ...any) {
	if isStdio(out) {
		e.log.Info(fmt.Sprintf(format, args...))
		return
	}

	fmt.Fprintf(e.stdout, format+"\n", args...)
}

// crcFormat renders a hash value.
type crcFormat string

const (
	crcSigned   crcFormat = "signed"
	crcUnsigned crcFormat = "unsigned"
	crcHex      crcFormat = "hex"
)

func (f crcFormat) render(n names.Name) (string, error) {
	switch f {
	case crcSigned:
		return strconv.FormatInt(int64(int32(n)), 10), nil //nolint:gosec // reinterpret the bit pattern
	case crcUnsigned:
		return strconv.FormatUint(uint64(n), 10), nil
	case crcHex:
		return n.Hex(), nil
	default:
		return "", fmt.Errorf("unknown crc format %q (want signed, unsigned or hex)", string(f))
	}
}

// crcMode selects what one hash covers.
type crcMode string

const (
	crcLines crcMode = "lines"
	crcBytes crcMode = "bytes"
)

func crc32Command() *command {
	var (
		starting int32
		format   string
		mode     string
	)

	return &command{
		name:    "crc32",
		summary: "Print the name hash of each argument or stdin line",
		usage:   "crc32 [flags] [string...]",
		minArgs: 0,
		maxArgs: -1,
		flags: func(fs *pflag.FlagSet) {
			fs.Int32VarP(&starting, "starting", "s", 0, "starting value for the hash")
			fs.StringVarP(&format, "format", "f", string(crcSigned), "output format: signed, unsigned, hex")
			fs.StringVarP(&mode, "mode", "m", string(crcLines), "lines: hash each argument or stdin line; bytes: hash the whole input")
		},
		run: func(_ context.Context, e *env, args []string) error {
			start := uint32(starting) //nolint:gosec // reinterpret the bit pattern
			render := func(b []byte) (string, error) {
				return crcFormat(format).render(names.HashBytes(b, start))
			}

			switch crcMode(mode) {
			case crcBytes:
				var data []byte
				if len(args) > 0 {
					data = []byte(strings.Join(args, " "))
				} else {
					var err error
					if data, err = e.readInput(""); err != nil {
						return err
					}
				}

				v, err := render(data)
				if err != nil {
					return err
				}

				fmt.Fprintln(e.stdout, v)
				return nil

			case crcLines:
				lines := args
				if len(lines) == 0 {
					data, err := e.readInput("")
					if err != nil {
						return err
					}

					if text := strings.TrimRight(string(data), "\r\n"); text != "" {
						lines = strings.Split(text, "\n")
					}
				}

				for _, line := range lines {
					line = strings.TrimSuffix(line, "\r")
					v, err := render([]byte(line))
					if err != nil {
						return err
					}

					fmt.Fprintf(e.stdout, "%s %s\n", v, line)
				}

				return nil

			default:
				return fmt.Errorf("unknown crc mode %q (want lines or bytes)", mode)
			}
		},
	}
}
