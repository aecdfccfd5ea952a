package posts

import (
	"context"
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dBlog/cmd/util"
	"github.com/ValentinKolb/dBlog/lib/blog"
	"github.com/ValentinKolb/dBlog/lib/common"
	"github.com/ValentinKolb/dBlog/lib/db"
	"github.com/ValentinKolb/dBlog/lib/db/engines/maple"
	"github.com/ValentinKolb/dBlog/lib/slot"
	"github.com/ValentinKolb/dBlog/lib/store/lstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:   "perf",
		Short: "Benchmarks the blog operations against an in-memory slot",
		Long: util.WrapString(`Runs load, save, filter, create and update against a synthetic dataset
kept in an in-memory maple store. The configured slot is not touched.`),
		PersistentPreRunE: processPerfConfig,
		RunE:              run,
	}
	perfNumPosts   = 1000
	perfNumThreads = 10
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. load,save)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "posts"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How many posts the synthetic dataset should contain"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := common.InitLoggers(viper.GetString("log-level")); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumPosts = viper.GetInt("posts")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfNumPosts < 1 {
		return fmt.Errorf("posts must be at least 1")
	}
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println("Performance testing tool for dBlog")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Posts: %d\n", perfNumPosts)
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	d, err := syntheticDataset(ctx, perfNumPosts)
	if err != nil {
		return err
	}

	st := lstore.NewLocalStore(func() db.KVDB {
		return maple.NewMapleDB(nil)
	})
	defer st.Close()
	adapter := slot.New(st, nil)
	if err := adapter.Save(ctx, d); err != nil {
		return err
	}

	fields := blog.PostFields{
		Title:      "Benchmark post",
		Content:    "Line one\nLine two",
		AuthorID:   d.Authors[0].AuthorID,
		CategoryID: d.Categories[0].CategoryID,
		Tags:       "bench, perf,  , go",
	}
	middleID := d.Posts[len(d.Posts)/2].ID
	category := d.Categories[0].CategoryID

	fmt.Println("staring tests...")

	benchmarks := []struct {
		name string
		op   func() error
	}{
		{"load", func() error {
			_, err := adapter.Load(ctx)
			return err
		}},
		{"save", func() error {
			return adapter.Save(ctx, d)
		}},
		{"filter-category", func() error {
			_ = blog.FilterPosts(d.Posts, blog.SelectCategory(category))
			return nil
		}},
		{"filter-tag", func() error {
			_ = blog.FilterPosts(d.Posts, blog.SelectTag("go"))
			return nil
		}},
		{"create", func() error {
			_, _, err := blog.CreatePost(d, fields)
			return err
		}},
		{"update", func() error {
			_, _, err := blog.UpdatePost(d, middleID, fields)
			return err
		}},
	}

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	for _, bm := range benchmarks {
		bm := bm
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bm.name) {
				return
			}

			b.SetParallelism(perfNumThreads)

			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if err := bm.op(); err != nil {
						log.Printf("(%s) - error: %v\n", bm.name, err)
					}
				}
			})
		})

		results[bm.name] = result
		printResult(bm.name, result)
	}

	// Write results to CSV if path is provided
	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return err
		}
		fmt.Printf("\nResults written to %s\n", csvPath)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == strings.TrimSpace(skip) {
			return true
		}
	}
	return false
}

// syntheticDataset builds a dataset of n posts using the authors and categories
// of the embedded seed
func syntheticDataset(ctx context.Context, n int) (blog.Dataset, error) {
	doc, err := slot.EmbeddedBootstrap().Fetch(ctx)
	if err != nil {
		return blog.Dataset{}, err
	}
	seed, err := slot.JSONCodec().Decode(doc.Data)
	if err != nil {
		return blog.Dataset{}, err
	}

	tagPool := []string{"go", "react", "travel", "food", "design", "cli", "web"}
	posts := make([]blog.Post, 0, n)
	for i := n; i >= 1; i-- {
		posts = append(posts, blog.Post{
			ID:         i,
			Title:      fmt.Sprintf("Post %d", i),
			Content:    strings.Repeat(fmt.Sprintf("Paragraph of post %d.\n", i), 5),
			AuthorID:   seed.Authors[i%len(seed.Authors)].AuthorID,
			CategoryID: seed.Categories[i%len(seed.Categories)].CategoryID,
			Tags:       []string{tagPool[i%len(tagPool)], tagPool[(i*3)%len(tagPool)]},
		})
	}

	return blog.Dataset{
		Posts:      posts,
		Authors:    seed.Authors,
		Categories: seed.Categories,
	}, nil
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Posts", "Threads",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strconv.Itoa(perfNumPosts),
			strconv.Itoa(perfNumThreads),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
