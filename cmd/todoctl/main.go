package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/todoserver/internal/client/api"
	"github.com/dmitrijs2005/todoserver/internal/client/cli"
)

func main() {

	serverURL := flag.String("server", "http://localhost:8080", "todo server base URL")
	flag.Parse()

	app := cli.NewApp(api.New(*serverURL), os.Stdout)

	err := app.Run(context.Background(), os.Getenv("TODO_TOKEN"), flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
