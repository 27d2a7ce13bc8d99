package main

import (
	"context"
	"flag"
	"log"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/Jean-StephaneCote/UART/pkg/dgram"
	"github.com/Jean-StephaneCote/UART/pkg/port"
	"github.com/Jean-StephaneCote/UART/pkg/run"
	"github.com/Jean-StephaneCote/UART/pkg/uart"
)

//go-build: CGO_ENABLED=0

var (
	device     string
	baud       = 115200
	discipline = "8N1@16"
	guard      uint
	interval   = time.Millisecond
	batch      = uint64(1024)
	useDgram   bool
)

func init() {
	flag.StringVar(&device, "device", device, "Host serial device to bridge.")
	flag.IntVar(&baud, "baud", baud, "Host serial baud rate.")
	flag.StringVar(&discipline, "line", discipline, "Simulated line discipline, like 8N1@16.")
	flag.UintVar(&guard, "guard", guard, "Simulated start-condition sync guard in ticks.")
	flag.DurationVar(&interval, "interval", interval, "Wall time between simulation bursts.")
	flag.Uint64Var(&batch, "batch", batch, "Simulation ticks per burst.")
	flag.BoolVar(&useDgram, "dgram", useDgram, "Speak framed datagrams instead of raw bytes.")
}

// pump moves bytes between the host serial device and a simulated
// wire. The port is single threaded, every access holds mu.
type pump struct {
	mu   sync.Mutex
	port *port.Port
	dev  *serial.Port

	cfg        uart.Config
	frameTicks uint64
	// level is the wire level fed back into the receiver, the
	// transmitter output of the previous tick.
	level bool
}

func newPump(cfg uart.Config, dev *serial.Port) (*pump, error) {
	p, err := port.NewPort(cfg)
	if err != nil {
		return nil, err
	}
	cfg = p.Engine().Config()
	bits := uint64(1 + cfg.DataBits + cfg.StopBits)
	if cfg.Parity != uart.ParityNone {
		bits++
	}
	return &pump{
		port:       p,
		dev:        dev,
		cfg:        cfg,
		frameTicks: bits * uint64(cfg.TicksPerBit),
		level:      true,
	}, nil
}

// advance runs n simulation ticks with the wire looped back.
func (p *pump) advance(n uint64) {
	for i := uint64(0); i < n; i++ {
		p.level = p.port.Tick(p.level)
	}
}

// run is the raw mode simulation task: advance in bursts, return
// everything that crossed the simulated wire to the device.
func (p *pump) run(ctx context.Context) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	buf := make([]byte, port.DefaultRingSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		p.mu.Lock()
		p.advance(batch)
		n, _ := p.port.Read(buf)
		p.mu.Unlock()
		if n == 0 {
			continue
		}
		if _, err := p.dev.Write(buf[:n]); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// feed is the raw mode reader task: bytes from the device enter the
// simulated transmitter.
func (p *pump) feed(ctx context.Context) error {
	return run.RunWithContextCloser(ctx, p.dev, func() error {
		buf := make([]byte, 64)
		for {
			n, err := p.dev.Read(buf)
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			p.mu.Lock()
			_, werr := p.port.Write(buf[:n])
			p.mu.Unlock()
			if werr != nil {
				log.Printf("wire overrun: %v", werr)
			}
		}
	})
}

// roundTrip pushes data through the simulated wire synchronously and
// returns what arrived, with the count of faulted frames.
func (p *pump) roundTrip(data []byte) ([]byte, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	before := p.port.RxErrors()
	if _, err := p.port.Write(data); err != nil {
		log.Printf("wire overrun: %v", err)
	}
	p.advance((uint64(len(data))+2)*p.frameTicks + uint64(p.cfg.SyncGuard))
	buf := make([]byte, len(data)+8)
	n, _ := p.port.Read(buf)
	return buf[:n], p.port.RxErrors() - before
}

// exchange is the dgram mode task: each request payload crosses the
// simulated wire and comes back as the reply payload. Replies whose
// payload lost frames on the wire carry dgram.ReplyFault.
func (p *pump) exchange(ctx context.Context) error {
	x := dgram.NewExchange(p.dev)
	x.Handler = dgram.HandlerFunc(func(_ context.Context, dg *dgram.Datagram) {
		echoed, faults := p.roundTrip(dg.Data)
		code := dg.Code
		if faults > 0 {
			code |= dgram.ReplyFault
		}
		if err := x.Send(&dgram.Datagram{Addr: dg.Addr, Code: code, Data: echoed}); err != nil {
			log.Printf("reply: %v", err)
		}
	})
	x.Errors = dgram.ErrorHandlerFunc(func(_ context.Context, err error) {
		log.Printf("decode: %v", err)
	})
	return run.RunWithContextCloser(ctx, p.dev, func() error {
		return x.Run(ctx)
	})
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	if device == "" {
		log.Fatalln("-device required")
	}
	cfg, err := uart.ParseConfig(discipline)
	if err != nil {
		log.Fatalln(err)
	}
	if guard > 0 {
		cfg.SyncGuard = uint32(guard)
	}
	dev, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		log.Fatalln(err)
	}
	p, err := newPump(cfg, dev)
	if err != nil {
		log.Fatalln(err)
	}

	r := run.NewRunner().HandleSignals()
	if useDgram {
		r.Go(run.NamedRun("exchange", run.RunnableFunc(p.exchange)))
	} else {
		r.Go(run.NamedRun("wire", run.RunnableFunc(p.run)))
		r.Go(run.NamedRun("feed", run.RunnableFunc(p.feed)))
	}
	log.Printf("bridging %s at %d baud over a simulated %s wire", device, baud, cfg)
	if err := r.Wait(); err != nil {
		log.Fatalln(err)
	}
}
