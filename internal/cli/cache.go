package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagecraft/pkg/cache"
	"github.com/matzehuels/pagecraft/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached render and outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.Config.CacheOptions()
			if err != nil {
				return err
			}
			if opts.Backend == cache.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}
			cc, err := cache.Open(ctx, opts)
			if err != nil {
				return err
			}
			defer cc.Close()

			clr, ok := cc.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "%s cache cannot be cleared", opts.Backend)
			}
			if err := clr.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cleared %s cache", opts.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.Config.CacheOptions()
			if err != nil {
				return err
			}
			var where string
			switch opts.Backend {
			case cache.BackendFile:
				where = opts.Dir
			case cache.BackendRedis:
				prefix := opts.RedisPrefix
				if prefix == "" {
					prefix = cache.DefaultRedisPrefix
				}
				where = "redis://" + opts.RedisAddr + " " + prefix + "*"
			case cache.BackendMongo:
				where = opts.MongoURI + "/" + opts.MongoDatabase
			default:
				printInfo("Caching is disabled")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), where)
			return nil
		},
	}
}
