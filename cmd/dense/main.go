// Package main provides the dense layer CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/born-ml/dense/backend"
	"github.com/born-ml/dense/nn"
	"github.com/born-ml/dense/tensor"
)

const version = "v0.0.1-dev"

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	if len(args) == 0 {
		usage(w)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(w, "dense %s\n", version)
		return nil
	case "engines":
		return engines(w)
	case "demo":
		engine, err := engineArg(args[1:])
		if err != nil {
			return err
		}
		return demo(w, engine)
	case "gradcheck":
		engine, err := engineArg(args[1:])
		if err != nil {
			return err
		}
		return gradcheck(w, engine)
	default:
		usage(w)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "dense - fully-connected layer with pluggable engines")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version              Show version")
	fmt.Fprintln(w, "  engines              List engines and their kernel support")
	fmt.Fprintln(w, "  demo [engine]        Run a 3->2 layer on a fixed input")
	fmt.Fprintln(w, "  gradcheck [engine]   Compare analytic and numeric gradients")
}

func engineArg(args []string) (backend.Engine, error) {
	if len(args) == 0 {
		return backend.DefaultEngine(), nil
	}
	return backend.ParseEngine(args[0])
}

func engines(w io.Writer) error {
	supported := make(map[backend.Engine]bool)
	for _, e := range backend.FullyConnectedEngines() {
		supported[e] = true
	}
	for _, e := range backend.Engines() {
		status := "unsupported"
		if supported[e] {
			status = "supported"
		}
		if e == backend.DefaultEngine() {
			status += " (default)"
		}
		fmt.Fprintf(w, "%-10s %s\n", e, status)
	}
	return nil
}

// demo builds W = [[1,0,1],[0,1,1]], b = [0,1] and applies it to [1,2,3].
func demo(w io.Writer, engine backend.Engine) error {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	layer, err := nn.NewFullyConnected(3, 2,
		nn.WithEngine(engine),
		nn.WithWeightInit(nn.FromValues([]float32{1, 0, 1, 0, 1, 1})),
		nn.WithBiasInit(nn.FromValues([]float32{0, 1})),
		nn.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	in, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3})
	if err != nil {
		return err
	}
	out, err := layer.Apply(in)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "engine: %s\n", layer.Engine())
	fmt.Fprintf(w, "input:  %v\n", in.Data())
	fmt.Fprintf(w, "output: %v\n", out.Data())
	return nil
}

func gradcheck(w io.Writer, engine backend.Engine) error {
	layer, err := nn.NewFullyConnected(4, 3, nn.WithEngine(engine))
	if err != nil {
		return err
	}
	in, err := tensor.FromRows([][]float32{
		{0.5, -1, 0.25, 2},
		{1, 0, -0.5, 0.75},
	})
	if err != nil {
		return err
	}
	target, err := tensor.FromRows([][]float32{
		{1, 0, -1},
		{0, 1, 0},
	})
	if err != nil {
		return err
	}

	res, err := nn.CheckGradients(layer, in, target, 1e-2)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "engine:    %s\n", layer.Engine())
	fmt.Fprintf(w, "worst:     %s[%d]\n", res.Parameter, res.Index)
	fmt.Fprintf(w, "analytic:  %.6f\n", res.Analytic)
	fmt.Fprintf(w, "numeric:   %.6f\n", res.Numeric)
	fmt.Fprintf(w, "rel error: %.2e\n", res.RelError)
	if res.RelError > 1e-2 {
		return fmt.Errorf("gradient check failed: relative error %.2e", res.RelError)
	}
	return nil
}
