// Package main 命令行聊天客户端入口
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"gemini-chat-api/internal/client"
	"gemini-chat-api/internal/client/history"
	"gemini-chat-api/internal/config"
	"gemini-chat-api/internal/domain/entity"
	"gemini-chat-api/internal/infrastructure/persistence/localstore"
	"gemini-chat-api/pkg/logger"
)

const helpText = `Commands:
  /mode text|image|audio|document   switch mode (keeps the chosen file)
  /file <path>                      choose a file, "/file" alone clears it
  /template [n]                     list templates, or apply template n
  /history                          show saved exchanges, newest first
  /replay <n>                       restore history entry n without sending
  /clear                            clear history
  /quit                             exit
Anything else is sent as the prompt. An empty line sends the current prompt.`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	baseURL := flag.String("base-url", cfg.Client.BaseURL, "dispatch API base URL")
	driver := flag.String("history-driver", cfg.Client.HistoryDriver, "history store: file | sqlite")
	path := flag.String("history-path", cfg.Client.HistoryPath, "history store location")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger.Init(*logLevel, "text", "stderr")

	kv, err := localstore.Open(*driver, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	session := client.NewSession(client.NewTransport(*baseURL, nil), history.New(kv))
	repl := &repl{session: session, out: os.Stdout}
	repl.run(context.Background(), os.Stdin)
}

type repl struct {
	session *client.Session
	out     io.Writer
	shown   int
}

func (r *repl) run(ctx context.Context, in io.Reader) {
	fmt.Fprintln(r.out, helpText)
	r.status()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.HasPrefix(line, "/") {
			if quit := r.command(ctx, line); quit {
				return
			}
			continue
		}

		if line != "" {
			r.session.SetPrompt(line)
		}
		_ = r.session.Submit(ctx)
		r.flush()
	}
}

// command 处理斜杠命令，返回 true 表示退出
func (r *repl) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/mode":
		m, err := entity.ParseMode(arg)
		if err == nil {
			err = r.session.SetMode(m)
		}
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		r.status()
	case "/file":
		var f *client.File
		if arg != "" {
			var err error
			if f, err = client.LoadFile(arg); err != nil {
				fmt.Fprintln(r.out, err)
				return false
			}
		}
		if err := r.session.ChooseFile(f); err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		fmt.Fprintf(r.out, "File: %s\n", r.session.FileName())
	case "/template":
		r.template(arg)
	case "/history":
		entries := r.session.History(ctx)
		if len(entries) == 0 {
			fmt.Fprintln(r.out, "Empty.")
		}
		for i, e := range entries {
			fmt.Fprintf(r.out, "[%d] %s\n", i+1, client.FormatEntry(e))
		}
	case "/replay":
		n, err := strconv.Atoi(arg)
		if err == nil {
			err = r.session.Replay(ctx, n-1)
		}
		if err != nil {
			fmt.Fprintln(r.out, err)
			return false
		}
		r.status()
		fmt.Fprintf(r.out, "Prompt: %s\n", r.session.Prompt())
		r.flush()
	case "/clear":
		if err := r.session.ClearHistory(ctx); err != nil {
			fmt.Fprintln(r.out, err)
		}
	default:
		fmt.Fprintf(r.out, "unknown command %s, try /help\n", name)
	}
	return false
}

func (r *repl) template(arg string) {
	templates := r.session.Templates()
	if arg == "" {
		for i, t := range templates {
			fmt.Fprintf(r.out, "  %d. %s\n", i+1, t.Label)
		}
		return
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(templates) {
		fmt.Fprintf(r.out, "template must be 1-%d\n", len(templates))
		return
	}
	r.session.ApplyTemplate(templates[n-1].Value)
	fmt.Fprintf(r.out, "Prompt: %s\n", r.session.Prompt())
}

func (r *repl) status() {
	fmt.Fprintf(r.out, "[%s] %s  File: %s\n", r.session.Mode(), r.session.Hint(), r.session.FileName())
}

// flush 输出上次之后新增的机器人消息
func (r *repl) flush() {
	msgs := r.session.Messages()
	for _, m := range msgs[r.shown:] {
		if m.Sender == client.SenderBot {
			fmt.Fprintln(r.out, m.Text)
		}
	}
	r.shown = len(msgs)
}
