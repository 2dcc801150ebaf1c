// Command gfm-chat is the terminal chat panel for the GFM assistant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"github.com/billie-coop/genomechat/internal/backend"
	"github.com/billie-coop/genomechat/internal/chat"
	"github.com/billie-coop/genomechat/internal/chatqueue"
	"github.com/billie-coop/genomechat/internal/config"
	"github.com/billie-coop/genomechat/internal/events"
	"github.com/billie-coop/genomechat/internal/logger"
	"github.com/billie-coop/genomechat/internal/prompts"
	"github.com/billie-coop/genomechat/internal/session"
	"github.com/billie-coop/genomechat/internal/tui"
)

const exitDrainTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	resume := flag.String("resume", "", `session id to resume, or "last"`)
	project := flag.String("dir", ".", "project directory holding .gfm/")
	flag.Parse()

	cfgManager := config.NewManager(*project)
	if err := cfgManager.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := cfgManager.Get()

	log, err := logger.NewFile(cfg.LogMode, filepath.Join(cfgManager.Dir(), "gfm-chat.log"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	sessions := session.NewManager(cfgManager.Dir())
	if err := sessions.Initialize(); err != nil {
		return err
	}

	sess, history, err := openSession(sessions, *resume)
	if err != nil {
		return err
	}
	log.Info("starting chat", "session", sess.ID, "api_base_url", cfg.APIBaseURL, "history", len(history))

	client := backend.NewClient(cfg.APIBaseURL)
	broker := events.NewBroker()
	queue := chatqueue.New(client,
		chatqueue.WithHistory(history...),
		chatqueue.WithTimeout(cfg.RequestTimeout.Std()),
		chatqueue.WithBroker(broker),
		chatqueue.WithLogger(log),
	)

	model := tui.New(tui.Options{
		Queue:  queue,
		Broker: broker,
		Health: client,
		Logger: log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()
	model.Close()

	// Give the in-flight request and anything queued behind it a bounded
	// chance to land in the transcript before it is saved.
	if pending := queue.Snapshot(); pending.Busy() || pending.QueueLength > 0 {
		fmt.Printf("Waiting up to %s for %d unanswered message(s)...\n", exitDrainTimeout, pending.QueueLength+1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), exitDrainTimeout)
	defer cancel()
	if err := queue.Shutdown(ctx); err != nil {
		log.Warn("unanswered messages saved as errors", "session", sess.ID, "error", err)
		fmt.Printf("Some messages were not answered before exit: %v\n", err)
	}
	if err := sessions.Save(sess, queue.Snapshot().Messages); err != nil {
		log.Error("save session", "session", sess.ID, "error", err)
	} else {
		fmt.Printf("Session saved. Resume with: gfm-chat -resume %s\n", sess.ID)
	}

	return runErr
}

// openSession resumes a saved chat or starts a new one opened by the greeting.
func openSession(sessions *session.Manager, resume string) (*session.Session, []chat.Message, error) {
	if resume == "" {
		sess := sessions.NewSession()
		greeting := chat.Message{
			ID:        1,
			Role:      chat.RoleAssistant,
			Content:   prompts.Greeting,
			Timestamp: sess.Created,
		}
		return sess, []chat.Message{greeting}, nil
	}

	sess, err := sessions.Load(resume)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil, fmt.Errorf("no saved session %q", resume)
	}
	if err != nil {
		return nil, nil, err
	}
	return sess, sess.Messages, nil
}
