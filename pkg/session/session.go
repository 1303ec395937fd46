// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/consensys/go-gotoprog/pkg/cfront"
	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/trace"
	"github.com/consensys/go-gotoprog/pkg/util"
	"github.com/consensys/go-gotoprog/pkg/util/source"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Frontend translates source files into a symbol table and a goto function
// table.
type Frontend interface {
	Compile(opts *options.Options, srcfiles ...*source.File) (*symbol.Context, *gotoprog.Functions,
		[]source.SyntaxError)
}

// The default frontend, which accepts a subset of C.
type cFrontend struct{}

func (p cFrontend) Compile(opts *options.Options, srcfiles ...*source.File) (*symbol.Context,
	*gotoprog.Functions, []source.SyntaxError) {
	return cfront.Compile(opts, srcfiles...)
}

// Option configures a session.
type Option func(*Session)

// WithFrontend configures the frontend used to translate source files.
func WithFrontend(frontend Frontend) Option {
	return func(s *Session) {
		s.frontend = frontend
	}
}

// CompileError reports the syntax errors arising from translation.
type CompileError struct {
	Errors []source.SyntaxError
}

func (p *CompileError) Error() string {
	var msgs []string
	//
	for _, err := range p.Errors {
		msgs = append(msgs, err.Error())
	}
	//
	return strings.Join(msgs, "\n")
}

// Session holds the result of translating a program: its namespace, the
// options in effect and its goto functions.  All work on the program is
// performed by a dedicated worker goroutine, which is stopped when the
// session is closed.  Sessions are independent, and several can be open at
// the same time.
type Session struct {
	frontend  Frontend
	options   options.Options
	context   *symbol.Context
	functions *gotoprog.Functions
	// Work for the worker goroutine.  Never closed, hence sending is always
	// safe.
	jobs chan func()
	// Closed to ask the worker to stop
	quit chan struct{}
	// Closed when the worker has stopped
	stopped chan struct{}
	once    sync.Once
}

// Open a session for a given argument vector (e.g. "main.c --big-endian").
func Open(ctx context.Context, args []string, opts ...Option) (*Session, error) {
	options, err := options.Parse(args)
	if err != nil {
		return nil, err
	}
	//
	return OpenWithOptions(ctx, *options, opts...)
}

// OpenWithOptions opens a session for a given set of options.  The source
// files are translated and the configured passes applied before returning.
func OpenWithOptions(ctx context.Context, config options.Options, opts ...Option) (*Session, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	//
	session := &Session{
		frontend: cFrontend{},
		options:  config,
		jobs:     make(chan func()),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	//
	for _, opt := range opts {
		opt(session)
	}
	//
	go session.worker()
	//
	log.Debugf("opened session for %s", strings.Join(config.Sources, ", "))
	//
	var err error
	//
	if werr := session.submit(ctx, func() { err = session.init(ctx) }); werr != nil {
		session.Close()
		return nil, werr
	} else if err != nil {
		session.Close()
		return nil, err
	}
	//
	return session, nil
}

// Translate the source files and apply the configured passes.  Cancellation
// is observed between translation and each pass, and any function table built
// so far is released.
func (p *Session) init(ctx context.Context) error {
	files, err := source.ReadFiles(p.options.Sources...)
	if err != nil {
		return err
	}
	//
	srcfiles := make([]*source.File, len(files))
	//
	for i := range files {
		srcfiles[i] = &files[i]
	}
	//
	stats := util.NewPerfStats()
	symbols, functions, errs := p.frontend.Compile(&p.options, srcfiles...)
	//
	stats.Log(fmt.Sprintf("translated %d file(s)", len(srcfiles)))
	//
	if len(errs) > 0 {
		return &CompileError{errs}
	} else if symbols == nil || functions == nil {
		return errors.New("frontend produced no program")
	}
	//
	p.context = symbols
	//
	if p.functions, err = applyPasses(ctx, symbols, functions, &p.options); err != nil {
		return err
	}
	//
	return p.functions.Validate()
}

// A pass transforms one function table into another.
type pass struct {
	name      string
	transform func(*gotoprog.Functions) (*gotoprog.Functions, error)
}

// Determine the goto-program passes enabled by the given options, in the
// order they are applied.
func passesOf(ctx *symbol.Context, opts *options.Options) []pass {
	var passes []pass
	//
	if opts.DataRacesCheck {
		passes = append(passes, pass{"data races", func(f *gotoprog.Functions) (*gotoprog.Functions, error) {
			return gotoprog.AddRaceAssertions(ctx, f)
		}})
	}
	//
	if opts.Unwind > 0 {
		passes = append(passes, pass{fmt.Sprintf("unwind %d", opts.Unwind),
			func(f *gotoprog.Functions) (*gotoprog.Functions, error) {
				return f.Map(func(p *gotoprog.Program) (*gotoprog.Program, error) {
					return gotoprog.Unwind(p, opts.Unwind, opts.UnwindingAssertions)
				})
			}})
	}
	//
	if opts.RemoveSkip {
		passes = append(passes, pass{"remove skip", func(f *gotoprog.Functions) (*gotoprog.Functions, error) {
			return f.Map(gotoprog.RemoveSkip)
		}})
	}
	//
	return passes
}

// Apply the goto-program passes enabled by the given options.  Each pass
// produces a new function table, hence the previous one is released.  On
// failure (or cancellation) no table survives.
func applyPasses(ctx context.Context, symbols *symbol.Context, functions *gotoprog.Functions,
	opts *options.Options) (*gotoprog.Functions, error) {
	if err := ctx.Err(); err != nil {
		functions.Release()
		return nil, err
	}
	//
	for _, p := range passesOf(symbols, opts) {
		stats := util.NewPerfStats()
		//
		next, err := p.transform(functions)
		//
		functions.Release()
		//
		if err != nil {
			return nil, errors.Wrapf(err, "applying %s", p.name)
		} else if err = ctx.Err(); err != nil {
			next.Release()
			return nil, err
		}
		//
		stats.Log(fmt.Sprintf("applied pass %s", p.name))
		functions = next
	}
	//
	return functions, nil
}

// Namespace returns the symbols of the program.
func (p *Session) Namespace() symbol.Namespace {
	return symbol.NewNamespace(p.context)
}

// Options returns the options in effect for this session.
func (p *Session) Options() options.Options {
	return p.options
}

// Functions returns the goto functions of the program.
func (p *Session) Functions() *gotoprog.Functions {
	return p.functions
}

// Init returns the namespace, options and goto functions of this session.
func (p *Session) Init() (symbol.Namespace, options.Options, *gotoprog.Functions) {
	return p.Namespace(), p.options, p.functions
}

// Simulate the program from its entry point.
func (p *Session) Simulate(ctx context.Context, config trace.Config) (*trace.Trace, trace.Outcome, error) {
	var (
		result  *trace.Trace
		outcome trace.Outcome
		err     error
	)
	//
	if p.functions.Released() {
		return nil, outcome, gotoprog.ErrSessionClosed
	}
	//
	config.Integer = p.options.IsInteger()
	//
	job := func() {
		result, outcome, err = trace.Simulate(ctx, p.Namespace(), p.functions, config)
	}
	//
	if werr := p.submit(ctx, job); werr != nil {
		return nil, outcome, werr
	}
	//
	return result, outcome, err
}

// Close this session, stopping the worker (after any job it is running) and
// releasing the goto functions.  Closing a session more than once has no
// effect.
func (p *Session) Close() {
	p.once.Do(func() {
		close(p.quit)
		<-p.stopped
		//
		if p.functions != nil {
			p.functions.Release()
		}
		//
		log.Debugf("closed session for %s", strings.Join(p.options.Sources, ", "))
	})
}

func (p *Session) worker() {
	defer close(p.stopped)
	//
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.quit:
			return
		}
	}
}

// Run a job on the worker, waiting for it to complete.  Once accepted, a job
// always runs to completion (it is expected to observe ctx itself), so no
// session state is touched concurrently with it.
func (p *Session) submit(ctx context.Context, job func()) error {
	var done = make(chan struct{})
	//
	if err := ctx.Err(); err != nil {
		return err
	}
	//
	select {
	case p.jobs <- func() { defer close(done); job() }:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return gotoprog.ErrSessionClosed
	}
	//
	<-done
	//
	return nil
}
