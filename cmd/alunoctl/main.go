// Command alunoctl talks to a running aluno API.
//
//	alunoctl [-url http://localhost:3000] [-f aluno.json] <command> [arg]
//
// Commands: list, get <id>, cep <code>, create, update <id>, delete <id>,
// delete-matricula <matricula>, watch. create and update read the aluno
// JSON body from -f, or from stdin when -f is "-".
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/aluno"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/client"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/config"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fs := flag.NewFlagSet("alunoctl", flag.ContinueOnError)
	baseURL := fs.String("url", cfg.Client.BaseURL, "API base URL")
	bodyFile := fs.String("f", "-", "aluno JSON body for create and update")
	interval := fs.Duration("interval", time.Duration(cfg.Client.PollIntervalSeconds)*time.Second, "watch poll interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errors.New("missing command (list, get, cep, create, update, delete, delete-matricula, watch)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.New(*baseURL)
	cmd, arg := rest[0], ""
	if len(rest) > 1 {
		arg = rest[1]
	}

	needsArg := map[string]string{
		"get":              "id",
		"cep":              "cep",
		"update":           "id",
		"delete":           "id",
		"delete-matricula": "matricula",
	}
	if name, ok := needsArg[cmd]; ok && arg == "" {
		return fmt.Errorf("%s requires <%s>", cmd, name)
	}

	var result interface{}
	switch cmd {
	case "list":
		result, err = c.ListAlunos(ctx)
	case "get":
		result, err = c.GetAluno(ctx, arg)
	case "cep":
		result, err = c.BuscarCEP(ctx, arg)
	case "create", "update":
		req, readErr := readRequest(*bodyFile, in)
		if readErr != nil {
			return readErr
		}
		if cmd == "create" {
			result, err = c.CreateAluno(ctx, req)
		} else {
			result, err = c.UpdateAluno(ctx, arg, req)
		}
	case "delete":
		result, err = c.DeleteAluno(ctx, arg)
	case "delete-matricula":
		result, err = c.DeleteAlunoByMatricula(ctx, arg)
	case "watch":
		return watch(ctx, c, cfg.Env, *interval, out)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readRequest(path string, stdin io.Reader) (aluno.AlunoRequest, error) {
	var req aluno.AlunoRequest

	src := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return req, fmt.Errorf("failed to open body: %w", err)
		}
		defer f.Close()
		src = f
	}

	if err := json.NewDecoder(src).Decode(&req); err != nil {
		return req, fmt.Errorf("failed to decode aluno body: %w", err)
	}
	return req, nil
}

func watch(ctx context.Context, c *client.Client, env string, interval time.Duration, out io.Writer) error {
	oplog := client.NewOpLog(client.DefaultOpLogSize)
	monitor := client.NewMonitor(c, oplog, logger.New(env), interval)

	go monitor.Run(ctx)

	<-ctx.Done()
	for _, entry := range oplog.Entries() {
		fmt.Fprintln(out, entry)
	}
	return nil
}
