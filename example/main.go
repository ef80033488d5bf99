package main

import (
	"time"

	"github.com/kashari/golog"
	"github.com/kashari/yggdrasil"
)

// main wires up a suggest server over a small hand-seeded index and serves
// a demo page that streams ranked suggestions over the library's own
// WebSocket machinery as you type — the same live route cmd/yggdrasil's
// serve command registers, demonstrated here standalone.
func main() {
	router := yggdrasil.New().WithFileLogging("example.log").
		WithWorkerPool(10).
		WithRateLimiter(50, time.Second)

	store := yggdrasil.NewTreeStore()
	yggdrasil.RegisterTreeRoutes(router, store, 10)

	seed(store)

	router.GET("/", func(ctx *yggdrasil.Context) {
		ctx.HTML(200, demoPage)
	})

	err := router.Start("4423")
	if err != nil {
		golog.Error("Failed to start server: {}", err)
	}
}

// seed inserts a handful of sample patterns directly into the "demo" index
// so the live page has something to match against immediately.
func seed(store *yggdrasil.TreeStore) {
	idx := store.Index("demo")
	samples := []string{"apple", "application", "apply", "apricot", "banana", "bandana", "band"}
	for _, s := range samples {
		idx.Insert(s, `"`+s+`"`)
	}
}

const demoPage = `
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>yggdrasil live suggestions</title>
	<style>
		body { font-family: Arial, sans-serif; max-width: 600px; margin: 40px auto; }
		input { width: 100%; padding: 8px; font-size: 16px; }
		ul { list-style: none; padding: 0; }
		li { padding: 6px 10px; border-bottom: 1px solid #eee; }
	</style>
</head>
<body>
	<h1>yggdrasil</h1>
	<input id="prefix" placeholder="Start typing a prefix...">
	<ul id="results"></ul>
	<script>
		const socket = new WebSocket("ws://" + window.location.host + "/v1/trees/demo/live?cmp=lexicographic");
		const results = document.getElementById("results");
		const input = document.getElementById("prefix");

		socket.onmessage = function(event) {
			const data = JSON.parse(event.data);
			results.innerHTML = "";
			(data.values || []).forEach(function(v) {
				const li = document.createElement("li");
				li.textContent = v;
				results.appendChild(li);
			});
		};

		input.addEventListener("input", function() {
			if (socket.readyState === WebSocket.OPEN) {
				socket.send(input.value);
			}
		});
	</script>
</body>
</html>`
