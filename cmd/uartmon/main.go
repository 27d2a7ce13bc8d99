package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Jean-StephaneCote/UART/pkg/mon"
	"github.com/Jean-StephaneCote/UART/pkg/run"
	"github.com/Jean-StephaneCote/UART/pkg/sim"
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

//go-build: CGO_ENABLED=0

var (
	mqttURL    = "mqtt://localhost:1883/uart/"
	listen     string
	watch      bool
	discipline = "8N1@100"
	interval   = 100 * time.Millisecond
)

func init() {
	if val := os.Getenv("UART_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&listen, "listen", listen, "Serve a websocket feed of events on this address.")
	flag.BoolVar(&watch, "watch", watch, "Watch events from the broker instead of generating.")
	flag.StringVar(&discipline, "line", discipline, "Line discipline of the generated loopback.")
	flag.DurationVar(&interval, "interval", interval, "Wall time between generated words.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mon.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		log.Fatalln(err)
	}

	feed := mon.NewFeed()
	r := run.NewRunner().HandleSignals()

	if watch {
		w := mon.Watch(q, mon.EventHandlerFunc(func(topic string, ev *mon.Event) {
			errMark := ""
			if ev.Err {
				errMark = " ERR"
			}
			log.Printf("%s: tick=%d data=%#04x%s %s", topic, ev.Tick, ev.Data, errMark, ev.Config)
			feed.HandleEvent(topic, ev)
		}))
		w.Meta = func(topic string, payload []byte) {
			log.Printf("%s: %s", topic, string(payload))
		}
		r.Go(run.NamedRun("watch", run.RunnableFunc(func(ctx context.Context) error {
			<-ctx.Done()
			w.Close()
			return q.Close()
		})))
	} else {
		cfg, err := uart.ParseConfig(discipline)
		if err != nil {
			log.Fatalln(err)
		}
		loop, err := sim.NewLoopback(cfg)
		if err != nil {
			log.Fatalln(err)
		}
		origin := mon.Identity()
		pub := mon.NewPublisher(q, origin)
		pub.Config = cfg.String()
		loop.SubscribeFrames(pub)
		loop.SubscribeFrames(sim.FrameListenerFunc(func(source string, tick uint64, frame uart.Frame) {
			feed.HandleEvent("frames/"+origin+"/"+source, &mon.Event{
				Source: source,
				Tick:   tick,
				Data:   frame.Data,
				Err:    frame.Err,
				Config: pub.Config,
			})
		}))
		if err := pub.Announce(cfg.String()); err != nil {
			log.Fatalln(err)
		}
		log.Printf("publishing %s loopback frames as %s", cfg, origin)
		r.Go(run.NamedRun("generate", run.RunnableFunc(func(ctx context.Context) error {
			defer q.Close()
			return generate(ctx, loop)
		})))
	}

	if listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/events", feed.Handler())
		server := &http.Server{Addr: listen, Handler: mux}
		r.Go(run.NamedRun("feed", run.RunnableFunc(func(ctx context.Context) error {
			return run.RunWithContextCloser(ctx, server, server.ListenAndServe)
		})))
		log.Printf("serving events on ws://%s/events", listen)
	}
	if err := r.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// generate sends a rolling counter through the loopback, one word per
// interval.
func generate(ctx context.Context, loop *sim.Loopback) error {
	cfg := loop.Engine().Config()
	bits := uint64(1 + cfg.DataBits + cfg.StopBits)
	if cfg.Parity != uart.ParityNone {
		bits++
	}
	window := 4*bits*uint64(cfg.TicksPerBit) + uint64(cfg.SyncGuard)
	mask := uint16(1)<<cfg.DataBits - 1

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var word uint16
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := loop.Engine().RequestSend(word & mask); err != nil {
			return err
		}
		if _, ok := loop.RunUntilFrame(window); !ok {
			return fmt.Errorf("no frame within %d ticks", window)
		}
		word++
	}
}
