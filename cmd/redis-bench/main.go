// Command redis-bench runs a SET/GET loop against one endpoint and reports
// throughput and latency in Prometheus text format.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pior/redis"
)

var (
	setLatency = metrics.NewHistogram("redis_bench_set_seconds")
	getLatency = metrics.NewHistogram("redis_bench_get_seconds")
	successes  = metrics.NewCounter("redis_bench_ops_total")
	failures   = metrics.NewCounter("redis_bench_failures_total")
)

func main() {
	var (
		addr     string
		duration time.Duration
		pipeline int
	)

	cmd := &cobra.Command{
		Use:   "redis-bench",
		Short: "SET/GET throughput benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			godotenv.Load()

			client := redis.New(&redis.Config{
				Addr:     addr,
				Password: os.Getenv("REDIS_PASSWORD"),
			})
			defer client.Close()

			if err := run(client, duration, pipeline); err != nil {
				return err
			}

			metrics.WritePrometheus(os.Stdout, false)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:6379", "server address")
	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "how long to run")
	cmd.Flags().IntVar(&pipeline, "pipeline", 0, "batch size, 0 for single round trips")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(client *redis.Client, duration time.Duration, pipeline int) error {
	deadline := time.Now().Add(duration)

	for i := 0; time.Now().Before(deadline); i++ {
		key := "bench:" + strconv.Itoa(i%1000)

		if pipeline > 0 {
			client.StartPipeline()
			for j := 0; j < pipeline; j++ {
				client.Exec("SET", key, "value")
			}
			start := time.Now()
			if _, err := client.StopPipeline(true); err != nil {
				failures.Inc()
				return err
			}
			setLatency.UpdateDuration(start)
			successes.Add(pipeline)
			continue
		}

		start := time.Now()
		if _, err := client.Exec("SET", key, "value"); err != nil {
			failures.Inc()
			return err
		}
		setLatency.UpdateDuration(start)

		start = time.Now()
		if _, err := client.ExecBytes("GET", key); err != nil {
			failures.Inc()
			return err
		}
		getLatency.UpdateDuration(start)
		successes.Add(2)
	}
	return nil
}
