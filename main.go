package main

import (
	"log"
	"os"

	"github.com/Rakhulsr/bigcorp-shop/app/cmd"
	"github.com/Rakhulsr/bigcorp-shop/app/configs"
)

func main() {
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if err := cmd.Serve(configs.LoadENV); err != nil {
		log.Fatal(err)
	}
}
