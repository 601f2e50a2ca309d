//go:build mage

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	templDir  = "./internal/templates"
	serverBin = "bin/cotizador-server"
	cliBin    = "bin/cotizador"
	sampleDir = "testdata/requests"
)

// Generate runs templ generate on the email templates. Run it after
// editing any .templ file.
func Generate() error {
	if _, err := exec.LookPath("templ"); err != nil {
		fmt.Println(">> templ not found; install with:")
		fmt.Println("   go install github.com/a-h/templ/cmd/templ@v0.2.793")
		return err
	}
	fmt.Println(">> templ generate", templDir)
	return sh.Run("templ", "generate", "-path", templDir)
}

// Build generates templ output, tidies deps, then compiles the server and the
// CLI into ./bin.
func Build() error {
	mg.Deps(Generate, Tidy)
	fmt.Println(">> Building server binary...")
	if err := sh.Run("go", "build", "-o", serverBin, "./cmd/server"); err != nil {
		return err
	}
	fmt.Println(">> Building CLI binary...")
	return sh.Run("go", "build", "-o", cliBin, "./cmd/cotizador")
}

// Run builds then executes the server.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server on :" + port() + " ...")
	return sh.Run("./" + serverBin)
}

// Dev generates templates then starts the server via go run against the
// local SQLite sheet with emails logged instead of sent.
func Dev() error {
	mg.Deps(Generate)
	fmt.Println(">> Dev mode: go run ./cmd/server (sqlite sheet, dry-run mail) ...")
	cmd := exec.Command("go", "run", "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = devEnv()
	return cmd.Run()
}

// Watch runs templ generate --watch alongside the dev server. Ctrl-C stops
// both.
func Watch() error {
	mg.Deps(Generate)

	fmt.Println(">> Starting templ watcher...")
	watcher := exec.Command("templ", "generate", "--watch", "-path", templDir)
	watcher.Stdout = os.Stdout
	watcher.Stderr = os.Stderr
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("start templ watcher: %w", err)
	}

	fmt.Println(">> Starting server (go run)...")
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	server.Env = devEnv()
	if err := server.Start(); err != nil {
		watcher.Process.Kill()
		return fmt.Errorf("start server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n>> Shutting down...")
	server.Process.Signal(syscall.SIGTERM)
	watcher.Process.Kill()
	server.Wait()
	return nil
}

// Preview renders the emails and receipt for every sample request into
// ./preview.
func Preview() error {
	mg.Deps(Build)
	entries, err := os.ReadDir(sampleDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", sampleDir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := sampleDir + "/" + e.Name()
		fmt.Println(">> preview", path)
		if err := sh.Run("./"+cliBin, "render", "-f", path, "-o", "preview"); err != nil {
			return err
		}
		out := "preview/" + e.Name() + ".pdf"
		if err := sh.Run("./"+cliBin, "receipt", "-f", path, "-o", out); err != nil {
			return err
		}
	}
	return nil
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Test generates templates then runs all unit tests with the race detector.
func Test() error {
	mg.Deps(Generate)
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// Clean removes build artifacts, previews, the local SQLite sheet, and the
// generated _templ.go files.
func Clean() error {
	fmt.Println(">> Cleaning...")
	os.RemoveAll("bin")
	os.RemoveAll("preview")
	os.Remove("cotizaciones.db")
	return sh.Run("find", templDir, "-name", "*_templ.go", "-delete")
}

// Install installs both binaries to $GOPATH/bin.
func Install() error {
	mg.Deps(Tidy)
	if err := sh.Run("go", "install", "./cmd/server"); err != nil {
		return err
	}
	return sh.Run("go", "install", "./cmd/cotizador")
}

func devEnv() []string {
	return append(os.Environ(),
		"PORT="+port(),
		"SHEETS_BACKEND=sqlite",
		"EMAIL_DRY_RUN=true",
		"LOG_FORMAT=text",
	)
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}

func init() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
}
