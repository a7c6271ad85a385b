// Command gascli is the one-shot command line companion of the gas
// tracker daemon.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/ethgas/pkg/config"
	"github.com/chainsafe/ethgas/pkg/ethereum"
	"github.com/chainsafe/ethgas/pkg/export"
	"github.com/chainsafe/ethgas/pkg/graph"
	"github.com/chainsafe/ethgas/pkg/history"
	"github.com/chainsafe/ethgas/pkg/keccak"
	"github.com/chainsafe/ethgas/pkg/networks"
	"github.com/chainsafe/ethgas/pkg/predict"
	"github.com/chainsafe/ethgas/pkg/pricefeed"
	"github.com/chainsafe/ethgas/pkg/stats"
	"github.com/chainsafe/ethgas/pkg/tracker"
)

const defaultPriorityTip = 1.5

func usage() {
	fmt.Fprintf(os.Stderr, `usage: gascli <command> [flags]

Commands:
  gas          current gas price for one network
  blocknumber  latest block number
  hash         Keccak-256 digest of input
  networks     list supported networks
  compare      rank networks by transaction cost
  stats        statistics over stored history
  graph        chart stored history in the terminal
  predict      forecast from stored history
  export       write stored history as CSV or JSON

Run 'gascli <command> -h' for command flags.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "gas":
		err = runGas(os.Args[2:])
	case "blocknumber":
		err = runBlockNumber(os.Args[2:])
	case "hash":
		err = runHash(os.Args[2:])
	case "networks":
		err = runNetworks(os.Args[2:])
	case "compare":
		err = runCompare(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "graph":
		err = runGraph(os.Args[2:])
	case "predict":
		err = runPredict(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gascli: %v\n", err)
		os.Exit(1)
	}
}

func chainClient(networkID, rpcOverride string) (*ethereum.Client, networks.Network, error) {
	net, err := networks.Get(networkID)
	if err != nil {
		return nil, networks.Network{}, err
	}
	if rpcOverride != "" {
		net, err = net.WithRPCURL(rpcOverride)
		if err != nil {
			return nil, networks.Network{}, err
		}
	}
	client, err := ethereum.NewClient(net.RPCURL, ethereum.WithNetwork(net.ID))
	if err != nil {
		return nil, networks.Network{}, err
	}
	return client, net, nil
}

func runGas(args []string) error {
	fs := flag.NewFlagSet("gas", flag.ExitOnError)
	network := fs.String("network", "ethereum", "network id")
	rpc := fs.String("rpc", "", "override RPC endpoint URL")
	priority := fs.Float64("priority", defaultPriorityTip, "priority tip in gwei")
	usd := fs.Bool("usd", false, "include USD cost of a 21k-gas transfer")
	_ = fs.Parse(args)

	client, net, err := chainClient(*network, *rpc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	baseFeeWei, err := client.LatestBaseFee(ctx)
	if err != nil {
		return err
	}
	baseFee := ethereum.WeiToGwei(baseFeeWei)
	maxFee := baseFee + *priority

	line := fmt.Sprintf("Base: %.2f gwei | Priority: %.2f | Max: %.2f", baseFee, *priority, maxFee)

	if *usd {
		price, err := pricefeed.NewClient().USDPrice(ctx, net.CoinGeckoID)
		if err != nil {
			return fmt.Errorf("fetching token price: %w", err)
		}
		costUSD := maxFee * 1e-9 * 21000 * price.InexactFloat64()
		line += fmt.Sprintf(" | Tx ≈ $%.4f", costUSD)
	}

	fmt.Println(line)
	return nil
}

func runBlockNumber(args []string) error {
	fs := flag.NewFlagSet("blocknumber", flag.ExitOnError)
	network := fs.String("network", "ethereum", "network id")
	rpc := fs.String("rpc", "", "override RPC endpoint URL")
	_ = fs.Parse(args)

	client, _, err := chainClient(*network, *rpc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := client.BlockNumber(ctx)
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

func runHash(args []string) error {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	asHex := fs.Bool("hex", false, "treat input as a hex string")
	_ = fs.Parse(args)

	var data []byte
	if fs.NArg() > 0 {
		data = []byte(strings.Join(fs.Args(), " "))
	} else {
		in, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		data = in
	}

	if *asHex {
		s := strings.TrimSpace(string(data))
		s = strings.TrimPrefix(s, "0x")
		decoded, err := hex.DecodeString(s)
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}
		data = decoded
	}

	fmt.Println(keccak.Sum256(data).Hex())
	return nil
}

func runNetworks(args []string) error {
	fs := flag.NewFlagSet("networks", flag.ExitOnError)
	_ = fs.Parse(args)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCHAIN ID\tEXPLORER")
	for _, net := range networks.List() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", net.ID, net.Name, net.ChainID, net.Explorer)
	}
	return w.Flush()
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	txType := fs.String("tx", "simple", "transaction type")
	networkList := fs.String("networks", "", "comma-separated network ids (default all)")
	_ = fs.Parse(args)

	ids := networks.IDs()
	if *networkList != "" {
		ids = strings.Split(*networkList, ",")
	}

	readers := make(map[string]tracker.ChainReader, len(ids))
	for _, id := range ids {
		client, _, err := chainClient(id, "")
		if err != nil {
			return err
		}
		readers[id] = client
	}

	engine, err := tracker.NewEngine(
		&config.TrackerConfig{Networks: ids, Interval: time.Minute, PriorityTip: defaultPriorityTip},
		readers, pricefeed.NewClient(), nil, nil, zap.NewNop())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	quotes, err := engine.Compare(ctx, ids, *txType)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NETWORK\tMAX FEE (GWEI)\tCOST (NATIVE)\tCOST (USD)")
	for _, quote := range quotes {
		if quote.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", quote.NetworkID, quote.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t$%s\n",
			quote.NetworkID,
			quote.Sample.MaxFee,
			quote.Estimate.CostNative.StringFixed(8),
			quote.Estimate.CostUSD.StringFixed(4))
	}
	return w.Flush()
}

func openHistory(path string) (history.Store, error) {
	if path == "" {
		path = history.DefaultFilePath()
	}
	return history.NewFileStore(path)
}

func loadSince(ctx context.Context, store history.Store, network string, hours int) ([]history.Sample, error) {
	return store.Since(ctx, network, time.Now().Add(-time.Duration(hours)*time.Hour))
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	network := fs.String("network", "ethereum", "network id")
	hours := fs.Int("hours", 24, "lookback window in hours")
	file := fs.String("file", "", "history file path")
	_ = fs.Parse(args)

	store, err := openHistory(*file)
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := loadSince(context.Background(), store, *network, *hours)
	if err != nil {
		return err
	}

	summary, ok := stats.Compute(samples)
	if !ok {
		return fmt.Errorf("no samples for %s in the last %dh", *network, *hours)
	}

	fmt.Printf("%s, last %dh (%d samples)\n", *network, *hours, summary.Count)
	fmt.Printf("  base fee: min %.2f / avg %.2f / max %.2f gwei\n",
		summary.BaseFee.Min, summary.BaseFee.Avg, summary.BaseFee.Max)
	fmt.Printf("  max fee:  min %.2f / avg %.2f / max %.2f gwei\n",
		summary.MaxFee.Min, summary.MaxFee.Avg, summary.MaxFee.Max)

	fmt.Printf("  trend:    %s\n", graph.Sparkline(baseFees(samples), 50))

	current := samples[len(samples)-1].BaseFee
	rec := stats.Recommend(current, summary)
	fmt.Printf("  now: %.2f gwei (%s) %s\n", current, rec.Level, rec.Message)
	return nil
}

func runGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	network := fs.String("network", "ethereum", "network id")
	hours := fs.Int("hours", 24, "lookback window in hours")
	width := fs.Int("width", 60, "bar width in characters")
	bars := fs.Int("bars", 20, "maximum number of bars")
	file := fs.String("file", "", "history file path")
	_ = fs.Parse(args)

	store, err := openHistory(*file)
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := loadSince(context.Background(), store, *network, *hours)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples for %s in the last %dh", *network, *hours)
	}

	fmt.Printf("%s base fee, last %dh: %s\n\n", *network, *hours, graph.Sparkline(baseFees(samples), 50))
	fmt.Println(graph.BarChart(samples, *width, *bars))
	return nil
}

func baseFees(samples []history.Sample) []float64 {
	fees := make([]float64, len(samples))
	for i, s := range samples {
		fees[i] = s.BaseFee
	}
	return fees
}

func runPredict(args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	network := fs.String("network", "ethereum", "network id")
	method := fs.String("method", "moving_average", "moving_average, exponential or linear")
	file := fs.String("file", "", "history file path")
	_ = fs.Parse(args)

	store, err := openHistory(*file)
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := loadSince(context.Background(), store, *network, 24)
	if err != nil {
		return err
	}

	var forecast *predict.Forecast
	switch *method {
	case "moving_average":
		forecast, err = predict.MovingAverage(samples)
	case "exponential":
		forecast, err = predict.Exponential(samples)
	case "linear":
		forecast, err = predict.Linear(samples)
	default:
		return fmt.Errorf("unknown prediction method %q", *method)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s forecast (%s, %d samples)\n", *network, forecast.Method, forecast.SampleSize)
	fmt.Printf("  base fee: %.2f gwei, max fee: %.2f gwei\n", forecast.BaseFee, forecast.MaxFee)
	fmt.Printf("  trend: %s, confidence: %.0f%%\n", forecast.Trend, forecast.Confidence)
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	network := fs.String("network", "ethereum", "network id")
	format := fs.String("format", "csv", "csv or json")
	out := fs.String("out", "", "output file (default stdout)")
	limit := fs.Int("limit", 1000, "maximum samples")
	file := fs.String("file", "", "history file path")
	_ = fs.Parse(args)

	store, err := openHistory(*file)
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := store.Recent(context.Background(), *network, *limit)
	if err != nil {
		return err
	}
	samples = history.Chronological(samples)

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "csv":
		return export.WriteCSV(w, samples)
	case "json":
		return export.WriteJSON(w, samples)
	default:
		return fmt.Errorf("unsupported export format %q", *format)
	}
}
