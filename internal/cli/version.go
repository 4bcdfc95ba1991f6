package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tessro/patchdeck/internal/core"
	"github.com/tessro/patchdeck/internal/ports"
)

var (
	// Set via ldflags at build time
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// buildInfo describes the binary and the port contract it speaks.
type buildInfo struct {
	Version       string   `json:"version"`
	Commit        string   `json:"commit"`
	BuildDate     string   `json:"build_date"`
	GoVersion     string   `json:"go_version"`
	Platform      string   `json:"platform"`
	InboundPorts  []string `json:"inbound_ports"`
	OutboundPort  string   `json:"outbound_port"`
	LegacyTrackID string   `json:"legacy_track_id"`
	Commands      []string `json:"commands"`
}

func newBuildInfo() buildInfo {
	commands := make([]string, 0, len(core.Kinds()))
	for _, k := range core.Kinds() {
		commands = append(commands, string(k))
	}
	return buildInfo{
		Version:       Version,
		Commit:        Commit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		InboundPorts:  ports.InboundNames(),
		OutboundPort:  ports.PortCurrentTime,
		LegacyTrackID: ports.LegacyTrackID,
		Commands:      commands,
	}
}

func writeVersion(w io.Writer, info buildInfo, asJSON, verbose bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(w, "patchdeck %s\n", info.Version)
	if verbose {
		fmt.Fprintf(w, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(w, "  built:      %s\n", info.BuildDate)
		fmt.Fprintf(w, "  go version: %s\n", info.GoVersion)
		fmt.Fprintf(w, "  platform:   %s\n", info.Platform)
		fmt.Fprintf(w, "  ports in:   %s\n", strings.Join(info.InboundPorts, ", "))
		fmt.Fprintf(w, "  ports out:  %s\n", info.OutboundPort)
		fmt.Fprintf(w, "  legacy id:  %s\n", info.LegacyTrackID)
		fmt.Fprintf(w, "  commands:   %s\n", strings.Join(info.Commands, ", "))
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and port contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeVersion(os.Stdout, newBuildInfo(), JSONOutput(), Verbose())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
