package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thebartekbanach/imgpipe/pkg/config"
	"github.com/thebartekbanach/imgpipe/pkg/imgrequest"
	"github.com/thebartekbanach/imgpipe/pkg/provider"
)

var urlCmd = &cobra.Command{
	Use:   "url <image> <transform>...",
	Short: "Print the URL of a transformed image",
	Example: `  imgpipe url photo.jpg resize:800,600 --responsive small=resize:320,240
  imgpipe url photo.jpg resize:300,300 crop:100,100,center`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		responsive, _ := cmd.Flags().GetStringArray("responsive")

		url, err := buildURL(loadConfig(), args[0], args[1:], responsive)
		if err != nil {
			log.Fatalf("Cannot build URL: %s", err)
		}

		fmt.Println(url)
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlCmd.Flags().StringArrayP("responsive", "r", nil, "responsive rule as <rule>=<transform>, may be repeated")
}

// buildURL needs no cache nor workers, the builder only formats the query.
func buildURL(cfg *config.Config, image string, transforms, responsive []string) (string, error) {
	settings := provider.Settings{
		VarImage:          cfg.VarImage,
		VarTransform:      cfg.VarTransform,
		VarResponsiveFlag: cfg.VarResponsiveFlag,
	}

	img, err := imgrequest.New(provider.NewRequestProvider(settings, "", nil), nil, cfg.CacheLifetime, cfg.ServeRoute).
		Path(image, transforms...)
	if err != nil {
		return "", err
	}

	for _, rule := range responsive {
		index := strings.LastIndex(rule, "=")
		if index <= 0 {
			return "", fmt.Errorf("%w: responsive rule %q", imgrequest.ErrInvalidRequest, rule)
		}

		if _, err := img.Responsive(rule[:index], rule[index+1:]); err != nil {
			return "", err
		}
	}

	return img.String(), nil
}
