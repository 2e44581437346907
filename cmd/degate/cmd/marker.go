package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/design"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/logicmodel"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/remote"
)

var (
	markerURL      string
	markerRetries  int
	markerParallel int
)

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "Electrical marker operations",
}

var markerPushCmd = &cobra.Command{
	Use:   "push <library_file> <design_file> <marker>...",
	Short: "Push markers to a collaboration server",
	Long: `Send the named markers of a design to the server at --url (default
DEGATE_REMOTE_URL) and print the remote id each one was given.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runMarkerPush,
}

func init() {
	rootCmd.AddCommand(markerCmd)
	markerCmd.AddCommand(markerPushCmd)

	markerPushCmd.Flags().StringVar(&markerURL, "url", "", "server URL")
	markerPushCmd.Flags().IntVar(&markerRetries, "retries", 2, "retries on server errors")
	markerPushCmd.Flags().IntVar(&markerParallel, "parallel", 4, "markers pushed at once")
}

func runMarkerPush(cmd *cobra.Command, args []string) error {
	url := markerURL
	if url == "" {
		url = cfg.Remote.URL
	}
	if url == "" {
		return fmt.Errorf("no server URL: use --url or set DEGATE_REMOTE_URL")
	}

	m, err := loadModel(args[0], args[1])
	if err != nil {
		return err
	}
	client := remote.New(
		remote.WithTimeout(cfg.Remote.Timeout),
		remote.WithRetries(markerRetries, 500*time.Millisecond),
		remote.WithLogger(logger))

	var markers []*logicmodel.EMarker
	seen := make(map[*logicmodel.EMarker]bool, len(args)-2)
	for _, name := range args[2:] {
		mk, err := design.MarkerByName(m, name)
		if err != nil {
			return err
		}
		if !seen[mk] {
			seen[mk] = true
			markers = append(markers, mk)
		}
	}

	// Workers only see payloads; remote ids are recorded after Wait.
	payloads := make([]logicmodel.RemotePayload, len(markers))
	for i, mk := range markers {
		payloads[i] = mk.Payload()
	}
	ids := make([]logicmodel.ObjectID, len(markers))
	g, ctx := errgroup.WithContext(cmd.Context())
	if markerParallel > 0 {
		g.SetLimit(markerParallel)
	}
	for i := range payloads {
		g.Go(func() error {
			id, err := client.PushObject(ctx, url, payloads[i])
			if err != nil {
				return fmt.Errorf("emarker %d: push: %w", payloads[i].LocalID, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, mk := range markers {
		mk.SetRemoteID(ids[i])
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %d\n", mk.DescriptiveIdentifier(), ids[i])
	}
	return nil
}
