// Package main provides the player CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
)

var (
	app    = kingpin.New("harmony-cli", "harmony audio player client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("HARMONY_SERVER").String()

	// status command
	statusCmd = app.Command("status", "Show the player status")

	// subscribe command
	subscribeCmd = app.Command("subscribe", "Subscribe to notifications")

	// mode command
	modeCmd  = app.Command("mode", "Switch the list mode")
	modeName = modeCmd.Arg("name", "Mode (static or personal)").Required().String()

	// transport commands
	playCmd     = app.Command("play", "Start playback")
	pauseCmd    = app.Command("pause", "Pause playback")
	toggleCmd   = app.Command("toggle", "Toggle play/pause")
	nextCmd     = app.Command("next", "Play the next track")
	previousCmd = app.Command("previous", "Play the previous track").Alias("prev")

	selectCmd   = app.Command("select", "Play the track at index")
	selectIndex = selectCmd.Arg("index", "Zero-based track index").Required().Int()

	seekCmd      = app.Command("seek", "Move the playback position")
	seekFraction = seekCmd.Arg("fraction", "Position in [0,1]").Required().Float64()

	volumeCmd   = app.Command("volume", "Set the volume")
	volumeLevel = volumeCmd.Arg("level", "Volume in [0,1]").Required().Float64()

	shuffleCmd     = app.Command("shuffle", "Enable or disable shuffle")
	shuffleEnabled = shuffleCmd.Arg("enabled", "true or false").Required().Bool()

	repeatCmd     = app.Command("repeat", "Enable or disable repeat")
	repeatEnabled = repeatCmd.Arg("enabled", "true or false").Required().Bool()

	// ad hoc commands
	singleCmd  = app.Command("single", "Play one link immediately")
	singleLink = singleCmd.Arg("link", "YouTube link").Required().String()

	multipleCmd   = app.Command("multiple", "Play several links immediately")
	multipleLinks = multipleCmd.Arg("links", "YouTube links").Required().Strings()

	// personal list commands
	searchCmd  = app.Command("search", "Reload the personal list filtered by title")
	searchText = searchCmd.Arg("text", "Title substring (empty clears the filter)").String()

	saveCmd    = app.Command("save", "Save a link to the personal list")
	saveLink   = saveCmd.Arg("link", "YouTube link").Required().String()
	saveGlobal = saveCmd.Flag("global", "Save as a global song (administrators only)").Bool()

	// session commands
	sessionCmd  = app.Command("session", "Show the session")
	loginURLCmd = app.Command("login-url", "Print the login URL")
	logoutCmd   = app.Command("logout", "Log out")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create clients
	player := playerv1.NewPlayerClient(http.DefaultClient, *server)
	sessions := playerv1.NewSessionClient(http.DefaultClient, *server)

	ctx := context.Background()

	// Execute command
	switch command {
	case statusCmd.FullCommand():
		status(ctx, player)
	case subscribeCmd.FullCommand():
		subscribe(ctx, player)
	case modeCmd.FullCommand():
		printResult(player.SelectMode(ctx, *modeName))
	case playCmd.FullCommand():
		printResult(player.Play(ctx))
	case pauseCmd.FullCommand():
		printResult(player.Pause(ctx))
	case toggleCmd.FullCommand():
		printResult(player.TogglePlayPause(ctx))
	case nextCmd.FullCommand():
		printResult(player.Next(ctx))
	case previousCmd.FullCommand():
		printResult(player.Previous(ctx))
	case selectCmd.FullCommand():
		printResult(player.SelectTrack(ctx, *selectIndex))
	case seekCmd.FullCommand():
		printResult(player.Seek(ctx, *seekFraction))
	case volumeCmd.FullCommand():
		printResult(player.SetVolume(ctx, *volumeLevel))
	case shuffleCmd.FullCommand():
		printResult(player.SetShuffle(ctx, *shuffleEnabled))
	case repeatCmd.FullCommand():
		printResult(player.SetRepeat(ctx, *repeatEnabled))
	case singleCmd.FullCommand():
		printResult(player.PlaySingle(ctx, *singleLink))
	case multipleCmd.FullCommand():
		printResult(player.PlayMultiple(ctx, *multipleLinks))
	case searchCmd.FullCommand():
		printResult(player.SearchPersonal(ctx, *searchText))
	case saveCmd.FullCommand():
		if *saveGlobal {
			printResult(player.SaveGlobalTrack(ctx, *saveLink))
		} else {
			printResult(player.SaveTrack(ctx, *saveLink))
		}
	case sessionCmd.FullCommand():
		showSession(ctx, sessions)
	case loginURLCmd.FullCommand():
		loginURL(ctx, sessions)
	case logoutCmd.FullCommand():
		printResult(sessions.Logout(ctx))
	}
}

func printResult(res *playerv1.Result, err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if res.Success {
		fmt.Printf("%s\n", res.Message)
	} else {
		fmt.Printf("Failed [%s]: %s\n", res.Code, res.Message)
		os.Exit(1)
	}
}

func status(ctx context.Context, player *playerv1.PlayerClient) {
	s, err := player.GetStatus(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n=== PLAYER STATUS ===")
	printStatus(s)
	fmt.Println()
}

func printStatus(s *playerv1.Status) {
	fmt.Printf("Session ID: %s\n", s.SessionID)
	fmt.Printf("Mode: %s (logged in: %v)\n", s.Mode, s.Authenticated)
	fmt.Printf("State: %s\n", formatState(s.State))
	fmt.Printf("Volume: %.0f%%  Shuffle: %v  Repeat: %v\n", s.Volume*100, s.Shuffle, s.Repeat)

	if s.Track != nil {
		fmt.Printf("\nCurrent Track (%d/%d):\n", s.Index+1, s.Length)
		fmt.Printf("  Title: %s\n", s.Track.DisplayName)
		fmt.Printf("  Artist: %s\n", s.Track.Artist)
		fmt.Printf("  Link: %s\n", s.Track.MediaLink)
		fmt.Printf("  Thumbnail: %s\n", s.Track.ThumbnailURL)
		fmt.Printf("  Position: %s / %s\n", formatSeconds(s.ElapsedSeconds), formatSeconds(s.DurationSeconds))
	} else {
		fmt.Println("\nNo track loaded")
	}

	if len(s.Tracks) > 0 {
		fmt.Printf("\nTracks (%d):\n", len(s.Tracks))
		for i, t := range s.Tracks {
			marker := " "
			if i == s.Index {
				marker = ">"
			}
			fmt.Printf(" %s %2d. %s - %s\n", marker, i, t.DisplayName, t.Artist)
		}
	}
}

func subscribe(ctx context.Context, player *playerv1.PlayerClient) {
	stream, err := player.Subscribe(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Subscribed to notifications. Press Ctrl+C to exit.")

	// Handle shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nUnsubscribing...")
		os.Exit(0)
	}()

	// Receive notifications
	for stream.Receive() {
		printNotification(stream.Msg())
	}

	if err := stream.Err(); err != nil {
		fmt.Printf("Stream error: %v\n", err)
	}
}

func printNotification(n *playerv1.Notification) {
	fmt.Printf("\n[Sequence: %d] ", n.SequenceNo)

	switch n.Type {
	case playerv1.NotificationInitialState:
		fmt.Println("=== INITIAL STATE ===")
	case playerv1.NotificationStatus:
		fmt.Println("=== STATUS CHANGED ===")
	case playerv1.NotificationWidgetCommand:
		fmt.Println("=== WIDGET COMMAND ===")
	default:
		fmt.Printf("=== UNKNOWN EVENT (%s) ===\n", n.Type)
	}

	if n.Status != nil {
		printStatus(n.Status)
	}
	if c := n.Command; c != nil {
		fmt.Printf("  Instance: %d\n", c.Instance)
		fmt.Printf("  Action: %s\n", c.Action)
		if c.Link != "" {
			fmt.Printf("  Embed: %s (video=%s playlist=%s)\n", c.Kind, c.VideoID, c.PlaylistID)
			fmt.Printf("  Link: %s\n", c.Link)
			fmt.Printf("  Start Playing: %v\n", c.StartPlaying)
		}
	}
}

func showSession(ctx context.Context, sessions *playerv1.SessionClient) {
	info, err := sessions.GetSession(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session ID: %s\n", info.SessionID)
	fmt.Printf("Mode: %s\n", info.Mode)
	fmt.Printf("Logged in: %v\n", info.Authenticated)
}

func loginURL(ctx context.Context, sessions *playerv1.SessionClient) {
	url, err := sessions.LoginURL(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Please visit the following URL to log in:")
	fmt.Println("")
	fmt.Println(url)
}

func formatState(state string) string {
	switch state {
	case "idle":
		return "⏹  Idle (nothing loaded)"
	case "ready":
		return "⏸  Ready"
	case "playing":
		return "▶️  Playing"
	default:
		return "❓ Unknown"
	}
}

func formatSeconds(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
