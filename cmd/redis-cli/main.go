// Command redis-cli is a small interactive client. Flags configure the
// endpoint; REDIS_PASSWORD and REDIS_USERNAME may come from the environment
// (a .env file is honored when present).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pior/redis"
	"github.com/pior/redis/resp"
)

func main() {
	var (
		addr    string
		db      int
		useTLS  bool
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "redis-cli",
		Short: "Interactive RESP client",
		RunE: func(cmd *cobra.Command, args []string) error {
			godotenv.Load()

			logger := logrus.New()
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			client := redis.New(&redis.Config{
				Addr:     addr,
				DB:       db,
				UseTLS:   useTLS,
				Timeout:  timeout,
				Username: os.Getenv("REDIS_USERNAME"),
				Password: os.Getenv("REDIS_PASSWORD"),
				Logger:   logger,
			})
			defer client.Close()

			return repl(client)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:6379", "server address")
	cmd.Flags().IntVar(&db, "db", 0, "database index")
	cmd.Flags().BoolVar(&useTLS, "tls", false, "connect with TLS")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connect and I/O timeout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every command")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func repl(client *redis.Client) error {
	fmt.Println("Type commands as <NAME> [args...], or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		name := strings.ToUpper(fields[0])
		if name == "QUIT" || name == "EXIT" {
			client.Quit()
			return nil
		}

		args := make([]any, len(fields)-1)
		for i, field := range fields[1:] {
			args[i] = field
		}

		reply, err := client.Exec(name, args...)
		if err != nil {
			fmt.Printf("(error) %v\n", err)
			continue
		}
		printValue(reply, 0)
	}
}

func printValue(v resp.Value, indent int) {
	pad := strings.Repeat("  ", indent)
	switch v.Type {
	case resp.Array:
		if v.Null {
			fmt.Printf("%s(nil)\n", pad)
			return
		}
		for i, elem := range v.Elems {
			fmt.Printf("%s%d)", pad, i+1)
			printValue(elem, indent+1)
		}
	case resp.Bulk:
		if v.Null {
			fmt.Printf("%s(nil)\n", pad)
			return
		}
		fmt.Printf("%s%q\n", pad, v.Blob)
	case resp.Integer:
		fmt.Printf("%s(integer) %s\n", pad, v.Str)
	default:
		fmt.Printf("%s%s\n", pad, v.Str)
	}
}
