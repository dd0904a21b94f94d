package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"elevenlabs-sdk/config"
	"elevenlabs-sdk/elevenlabs"
	"elevenlabs-sdk/soundgen"
	"elevenlabs-sdk/user"
	"elevenlabs-sdk/voices"
)

type rootOptions struct {
	configPath string
	apiKey     string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "elevenlabs",
		Short:         "ElevenLabs API client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: nearest .elevenlabs)")
	root.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "API key, overrides config and environment")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newUserCmd(opts),
		newSubscriptionCmd(opts),
		newAccountCmd(opts),
		newVoicesCmd(opts),
		newVoiceCmd(opts),
		newSoundCmd(opts),
	)
	return root
}

func (o *rootOptions) client() (*elevenlabs.Client, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.apiKey != "" {
		cfg.APIKey = o.apiKey
	}
	return elevenlabs.NewClientFromConfig(cfg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newUserCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Show the account behind the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			info, err := client.User.GetUserInfo(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}

func newSubscriptionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subscription",
		Short: "Show plan and character usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			sub, err := client.User.GetSubscriptionInfo(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sub)
		},
	}
}

// account fetches the user and the subscription at the same time.
func newAccountCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show user and subscription together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			var (
				info *user.UserInfo
				sub  *user.SubscriptionInfo
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				info, err = client.User.GetUserInfo(ctx)
				return err
			})
			g.Go(func() (err error) {
				sub, err = client.User.GetSubscriptionInfo(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), map[string]any{
				"user":                 info,
				"subscription":         sub,
				"characters_remaining": sub.CharactersRemaining(),
				"resets_at":            sub.NextCharacterCountReset(),
			})
		},
	}
}

func newVoicesCmd(opts *rootOptions) *cobra.Command {
	var (
		q         voices.VoiceQuery
		pageSize  int
		totals    bool
		sortDir   string
		voiceType string
		category  string
		fineTune  string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "List voices",
		Long: `List voices available to the account.

Examples:
  elevenlabs voices --search narrator --page-size 20
  elevenlabs voices --voice-type personal --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("page-size") {
				q.PageSize = voices.Int(pageSize)
			}
			if cmd.Flags().Changed("total-count") {
				q.IncludeTotalCount = voices.Bool(totals)
			}
			q.SortDirection = voices.SortDirection(sortDir)
			q.VoiceType = voices.VoiceType(voiceType)
			q.Category = voices.Category(category)
			q.FineTuningState = voices.FineTuningState(fineTune)

			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			query := &q
			page, err := client.Voices.GetVoices(cmd.Context(), query)
			if err != nil {
				return err
			}
			if !all {
				return printJSON(cmd.OutOrStdout(), page)
			}

			found := page.Voices
			for page.HasMore && page.NextPageToken != "" {
				query = query.WithNextPageToken(page.NextPageToken)
				page, err = client.Voices.GetVoices(cmd.Context(), query)
				if err != nil {
					return err
				}
				found = append(found, page.Voices...)
			}
			return printJSON(cmd.OutOrStdout(), found)
		},
	}

	f := cmd.Flags()
	f.StringVar(&q.Search, "search", "", "filter by name, description, labels or category")
	f.IntVar(&pageSize, "page-size", 10, "voices per page, at most 100")
	f.StringVar(&q.NextPageToken, "page-token", "", "continue from a previous page")
	f.StringVar(&q.Sort, "sort", "", "created_at_unix or name")
	f.StringVar(&sortDir, "sort-direction", "", "asc or desc")
	f.StringVar(&voiceType, "voice-type", "", "personal, community, default, workspace or non-default")
	f.StringVar(&category, "category", "", "premade, cloned, generated or professional")
	f.StringVar(&fineTune, "fine-tuning-state", "", "fine tuning state of professional clones")
	f.StringVar(&q.CollectionID, "collection", "", "collection id")
	f.BoolVar(&totals, "total-count", true, "include the total count")
	f.StringSliceVar(&q.VoiceIDs, "id", nil, "look up specific voice ids")
	f.BoolVar(&all, "all", false, "follow next page tokens until the listing ends")
	return cmd
}

func newVoiceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "voice <voice_id>",
		Short: "Show a single voice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			voice, err := client.Voices.GetVoice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), voice)
		},
	}
}

func newSoundCmd(opts *rootOptions) *cobra.Command {
	var (
		duration  float64
		influence float64
		loop      bool
		model     string
		format    string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "sound <text>",
		Short: "Generate a sound effect",
		Long: `Generate a sound effect from a text prompt and save it as WAV.

Examples:
  elevenlabs sound "Star Wars Light Saber parry" -o parry.wav
  elevenlabs sound "rain on a tin roof" --duration 10 --loop -o rain.wav`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := soundgen.NewSoundGenerationRequest(args[0])
			req.Loop = loop
			req.ModelID = model
			if cmd.Flags().Changed("duration") {
				req.WithDuration(duration)
			}
			if cmd.Flags().Changed("prompt-influence") {
				req.WithPromptInfluence(influence)
			}

			outputFormat, err := soundgen.ParseOutputFormat(format)
			if err != nil {
				return err
			}

			client, err := opts.client()
			if err != nil {
				return err
			}
			defer client.Close()

			gc, err := client.SoundGeneration.GenerateSound(cmd.Context(), req, soundgen.Format(outputFormat))
			if err != nil {
				return err
			}
			defer gc.Close()

			if out != "" {
				ac, err := gc.AudioClip()
				if err != nil {
					return err
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s; %w", out, err)
				}
				err = ac.WriteWAV(f)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return fmt.Errorf("failed to write %s; %w", out, err)
				}
			}

			return printJSON(cmd.OutOrStdout(), map[string]any{
				"id":          gc.ID(),
				"text":        gc.Text(),
				"text_hash":   gc.TextHash().String(),
				"sample_rate": gc.SampleRate(),
				"length":      gc.Length().String(),
				"cached_path": gc.CachedPath(),
				"output_file": out,
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&duration, "duration", 0, "length in seconds, 0.5 to 22")
	f.Float64Var(&influence, "prompt-influence", 0.3, "0 to 1, how literally to follow the text")
	f.BoolVar(&loop, "loop", false, "generate a seamless loop")
	f.StringVar(&model, "model", "", "sound generation model id")
	f.StringVar(&format, "format", string(soundgen.DefaultOutputFormat), "pcm_16000, pcm_22050, pcm_24000 or pcm_44100")
	f.StringVarP(&out, "out", "o", "", "write the sound to this WAV file")
	return cmd
}
