package main

import (
	"go.uber.org/fx"

	"wispgate/apps/worker"
	"wispgate/internal"
	"wispgate/pkg"
	"wispgate/pkg/queue"
)

func main() {
	fx.New(
		pkg.Module,
		internal.Module,
		queue.Module,
		worker.Module,
	).Run()
}
