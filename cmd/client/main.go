package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/absurdly-visual/client-go/internal/api"
	"github.com/absurdly-visual/client-go/internal/config"
	"github.com/absurdly-visual/client-go/internal/game"
	"github.com/absurdly-visual/client-go/internal/socket"
)

const version = "v0.3.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		serverFlag  = flag.String("server", "", "Websocket URL of the game server (overrides AV_SERVER_URL)")
		apiFlag     = flag.String("api", "", "Base URL of the feed API (overrides AV_API_URL)")
		nameFlag    = flag.String("name", "", "Display name (overrides AV_PLAYER_NAME)")
		verbose     = flag.Bool("verbose", false, "Log every event at debug level")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Absurdly Visual - terminal client

Usage: %s [options]

Options:
  -h, --help       Show this help message
  -v, --version    Show version information
  --server URL     Websocket URL of the game server (default: ws://localhost:8080/ws)
  --api URL        Base URL of the feed API (default: http://localhost:8080)
  --name NAME      Display name used when creating or joining games
  --verbose        Log every event at debug level

Environment Variables:
  AV_SERVER_URL    Websocket URL of the game server
  AV_API_URL       Base URL of the feed API
  AV_PLAYER_NAME   Display name

Once running, type "help" for the in-game commands.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("av-client %s\n", version)
		return
	}

	cfg := config.FromEnv()
	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}
	if *apiFlag != "" {
		cfg.APIBaseURL = *apiFlag
	}
	if *nameFlag != "" {
		cfg.PlayerName = *nameFlag
	}
	if cfg.PlayerName == "" {
		cfg.PlayerName = "Player"
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	mgr := socket.NewManager(cfg.ServerURL, logger)
	session := game.NewSession(mgr, logger)
	feed := api.New(cfg.APIBaseURL, cfg.PlayerName)

	session.Signals().OnChange(func() {
		if note := session.Signals().Notification(); note != "" {
			fmt.Printf("  * %s\n", note)
		}
		if errMsg := session.Signals().Error(); errMsg != "" {
			fmt.Printf("  ! %s\n", errMsg)
		}
	})
	session.OnState(func(snap *game.Snapshot) {
		printPhase(snap, session.PlayerID())
	})
	mgr.On(socket.EventDisconnect, func(_ json.RawMessage) {
		fmt.Println("  (connection lost - reconnect with 'connect')")
	})

	ctx := context.Background()
	if err := mgr.Connect(ctx); err != nil {
		logger.Error().Err(err).Msg("initial connect failed; use 'connect' to retry")
	}

	fmt.Printf("Absurdly Visual %s - type 'help' for commands\n", version)
	repl(ctx, mgr, session, feed, cfg.PlayerName)
}

func repl(ctx context.Context, mgr *socket.Manager, session *game.Session, feed *api.Client, playerName string) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			mgr.Disconnect()
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "connect":
			if err := mgr.Connect(ctx); err != nil {
				fmt.Println("  connect failed:", err)
			}
		case "disconnect":
			mgr.Disconnect()
		case "create":
			session.CreateGame(playerName, nil)
		case "join":
			if len(args) < 1 {
				fmt.Println("  usage: join <game-id>")
				continue
			}
			session.JoinGame(args[0], playerName)
		case "start":
			session.StartGame()
		case "submit":
			ids := pickCardIDs(session.Snapshot(), args)
			if ids == nil {
				fmt.Println("  usage: submit <hand-number> [hand-number...]")
				continue
			}
			session.SubmitCards(ids)
		case "winner":
			if len(args) < 1 {
				fmt.Println("  usage: winner <submission-index>")
				continue
			}
			idx, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("  usage: winner <submission-index>")
				continue
			}
			session.SelectWinner(idx)
		case "ai":
			personality := ""
			if len(args) > 0 {
				personality = args[0]
			}
			session.RequestAIJoin(personality)
		case "say":
			session.SendChat(strings.Join(args, " "))
		case "hand":
			printHand(session.Snapshot())
		case "state":
			printState(session, mgr.Connected())
		case "feed":
			showFeed(ctx, feed)
		case "like":
			if len(args) < 1 {
				fmt.Println("  usage: like <video-id>")
				continue
			}
			if res, err := feed.Like(ctx, args[0]); err != nil {
				fmt.Println("  like failed:", err)
			} else {
				fmt.Printf("  liked=%v total=%d\n", res.Liked, res.LikesCount)
			}
		case "comment":
			if len(args) < 2 {
				fmt.Println("  usage: comment <video-id> <text>")
				continue
			}
			if _, err := feed.AddComment(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
				fmt.Println("  comment failed:", err)
			}
		case "quit", "exit":
			mgr.Disconnect()
			return
		default:
			fmt.Println("  unknown command; type 'help'")
		}
	}
}

func printHelp() {
	fmt.Print(`  create                   create a new game
  join <game-id>           join an existing game
  start                    start the game (lobby only)
  submit <n> [n...]        submit hand card(s) by number
  winner <index>           pick the winning submission (czar only)
  ai [personality]         add an AI player (default: absurd)
  say <message>            send a chat message
  hand                     show your hand
  state                    show the current snapshot
  feed                     list recent winning videos
  like <video-id>          like a video
  comment <video-id> <txt> comment on a video
  connect / disconnect     manage the connection
  quit                     leave
`)
}

func pickCardIDs(snap *game.Snapshot, args []string) []string {
	if snap == nil || len(args) == 0 {
		return nil
	}
	ids := make([]string, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > len(snap.YourHand) {
			return nil
		}
		ids = append(ids, snap.YourHand[n-1].ID)
	}
	return ids
}

func printPhase(snap *game.Snapshot, playerID string) {
	if snap == nil {
		return
	}
	switch snap.Phase {
	case game.PhasePlaying:
		if r := snap.CurrentRound; r != nil {
			fmt.Printf("  round %d: %q (pick %d)\n", r.RoundNumber, r.BlackCard.Text, r.BlackCard.Pick)
			if snap.IsCzar(playerID) {
				fmt.Println("  you are the czar this round - wait for submissions")
			}
		}
	case game.PhaseJudging:
		if r := snap.CurrentRound; r != nil {
			fmt.Println("  submissions:")
			for i, sub := range r.Submissions {
				texts := make([]string, 0, len(sub.Cards))
				for _, card := range sub.Cards {
					texts = append(texts, card.Text)
				}
				fmt.Printf("    [%d] %s\n", i, strings.Join(texts, " / "))
			}
		}
	case game.PhaseGameEnd:
		fmt.Println("  game over - final scores:")
		for _, p := range snap.Players {
			fmt.Printf("    %s: %d\n", p.Name, p.Score)
		}
	}
}

func printHand(snap *game.Snapshot) {
	if snap == nil || len(snap.YourHand) == 0 {
		fmt.Println("  (no cards)")
		return
	}
	for i, card := range snap.YourHand {
		fmt.Printf("  %d. %s\n", i+1, card.Text)
	}
}

func printState(session *game.Session, connected bool) {
	status := "offline"
	if connected {
		status = "connected"
	}
	fmt.Printf("  connection: %s\n", status)
	snap := session.Snapshot()
	if snap == nil {
		fmt.Println("  no game")
		return
	}
	fmt.Printf("  game %s  phase %s  first-to %d\n", snap.GameID, snap.Phase, snap.PointsToWin)
	for _, p := range snap.Players {
		marker := " "
		if snap.IsCzar(p.ID) {
			marker = "*"
		}
		fmt.Printf("  %s %s (%s) score=%d connected=%v\n", marker, p.Name, p.Type, p.Score, p.IsConnected)
	}
}

func showFeed(ctx context.Context, feed *api.Client) {
	videos, err := feed.VideosFeed(ctx, 10, 0)
	if err != nil {
		fmt.Println("  feed unavailable:", err)
		return
	}
	if len(videos) == 0 {
		fmt.Println("  no videos yet")
		return
	}
	for _, v := range videos {
		fmt.Printf("  %s  %q - %s (%d likes)\n", v.ID, v.BlackCardText, v.WinnerName, v.LikesCount)
		_ = feed.RecordView(ctx, v.ID)
	}
}
