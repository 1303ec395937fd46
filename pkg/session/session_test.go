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
	"math"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/consensys/go-gotoprog/pkg/expr"
	"github.com/consensys/go-gotoprog/pkg/gotoprog"
	"github.com/consensys/go-gotoprog/pkg/irep"
	"github.com/consensys/go-gotoprog/pkg/options"
	"github.com/consensys/go-gotoprog/pkg/symbol"
	"github.com/consensys/go-gotoprog/pkg/trace"
	"github.com/consensys/go-gotoprog/pkg/util/source"
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const spin = `int main() {
  while (1) {
  }
  return 0;
}
`

const counter = `int main() {
  unsigned int n = __VERIFIER_nondet_uint();
  unsigned int i = 0;
  while (i < n) {
    i = i + 1;
  }
  assert(i == n);
  return 0;
}
`

// Write a C program into a fresh temporary directory.
func writeSource(name string, text string) string {
	filename := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(filename, []byte(text), 0644)).To(Succeed())
	//
	return filename
}

// Construct a function table whose entry point fails an assertion.
func failingProgram() *gotoprog.Functions {
	var (
		funcs   = gotoprog.NewFunctions()
		builder = gotoprog.NewBuilder(funcs.MainId())
	)
	//
	builder.Emit(gotoprog.Instruction{Type: gotoprog.ASSERT, Guard: expr.False(), Comment: "unreachable"})
	builder.Emit(gotoprog.Instruction{Type: gotoprog.END_FUNCTION})
	//
	body, err := builder.Build()
	Expect(err).NotTo(HaveOccurred())
	Expect(funcs.Add(gotoprog.NewFunction(funcs.MainId(), gotoprog.Signature{Return: expr.Empty()}, body))).
		To(Succeed())
	funcs.Update()
	//
	return funcs
}

func must[T any](val T, err error) T {
	Expect(err).NotTo(HaveOccurred())
	return val
}

var _ = Describe("Session", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should translate and simulate a program", func() {
		filename := writeSource("main.c", counter)

		session, err := Open(ctx, []string{filename})
		Expect(err).NotTo(HaveOccurred())
		defer session.Close()

		Expect(session.Options().Sources).To(Equal([]string{filename}))
		Expect(session.Namespace().Has(session.Functions().MainId())).To(BeTrue())

		t, outcome, err := session.Simulate(ctx, trace.Config{Inputs: []*big.Int{big.NewInt(3)}})
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(trace.COMPLETED))
		Expect(t.Steps).NotTo(BeEmpty())
	})

	It("should unwind loops", func() {
		filename := writeSource("main.c", counter)

		session, err := Open(ctx, []string{filename, "--unwind", "2"})
		Expect(err).NotTo(HaveOccurred())
		defer session.Close()

		fn, err := session.Functions().Lookup(irep.NewId("c::main"))
		Expect(err).NotTo(HaveOccurred())

		loops, err := gotoprog.Loops(fn.Body())
		Expect(err).NotTo(HaveOccurred())
		Expect(loops).To(BeEmpty())
		// Three iterations violate the unwinding assertion
		_, outcome, err := session.Simulate(ctx, trace.Config{Inputs: []*big.Int{big.NewInt(3)}})
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(trace.VIOLATED))
	})

	It("should report syntax errors", func() {
		filename := writeSource("main.c", "int main() { return x; }\n")

		_, err := Open(ctx, []string{filename})

		var cerr *CompileError
		Expect(err).To(BeAssignableToTypeOf(cerr))
		Expect(err.(*CompileError).Errors).To(HaveLen(1))
		Expect(err.(*CompileError).Errors[0].Message()).To(Equal("unknown identifier x"))
	})

	It("should reject invalid options", func() {
		_, err := Open(ctx, []string{"main.c", "--bv", "--ir"})
		Expect(err).To(HaveOccurred())

		_, err = OpenWithOptions(ctx, options.Default())
		Expect(err).To(MatchError("no source file"))
	})

	It("should fail after being closed", func() {
		filename := writeSource("main.c", counter)

		session, err := Open(ctx, []string{filename})
		Expect(err).NotTo(HaveOccurred())

		funcs := session.Functions()
		session.Close()
		session.Close()

		Expect(funcs.Released()).To(BeTrue())
		_, err = funcs.Lookup(funcs.MainId())
		Expect(err).To(MatchError(gotoprog.ErrSessionClosed))
		_, _, err = session.Simulate(ctx, trace.Config{})
		Expect(err).To(MatchError(gotoprog.ErrSessionClosed))
	})

	It("should keep sessions independent", func() {
		first, err := Open(ctx, []string{writeSource("first.c", counter)})
		Expect(err).NotTo(HaveOccurred())

		second, err := Open(ctx, []string{writeSource("second.c", counter), "--ir"})
		Expect(err).NotTo(HaveOccurred())
		defer second.Close()

		first.Close()

		Expect(second.Functions().Released()).To(BeFalse())
		Expect(second.Options().IsInteger()).To(BeTrue())
		_, outcome, err := second.Simulate(ctx, trace.Config{Inputs: []*big.Int{big.NewInt(1)}})
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(trace.COMPLETED))
	})

	It("should honour cancellation", func() {
		filename := writeSource("main.c", counter)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Open(cancelled, []string{filename})
		Expect(err).To(MatchError(context.Canceled))
	})

	It("should stop a simulation when cancelled", func() {
		session, err := Open(ctx, []string{writeSource("main.c", spin)})
		Expect(err).NotTo(HaveOccurred())
		defer session.Close()

		timeout, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, _, err = session.Simulate(timeout, trace.Config{MaxSteps: math.MaxUint})
		Expect(err).To(MatchError(context.DeadlineExceeded))
		// The session remains usable
		_, outcome, err := session.Simulate(ctx, trace.Config{MaxSteps: 100})
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(trace.BOUNDED))
	})

	It("should close while a simulation is running", func() {
		session, err := Open(ctx, []string{writeSource("main.c", spin)})
		Expect(err).NotTo(HaveOccurred())

		timeout, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		result := make(chan error, 1)

		go func() {
			defer GinkgoRecover()
			_, _, err := session.Simulate(timeout, trace.Config{MaxSteps: math.MaxUint})
			result <- err
		}()

		session.Close()

		Eventually(result).Should(Receive(SatisfyAny(
			MatchError(context.DeadlineExceeded),
			MatchError(gotoprog.ErrSessionClosed))))
		Expect(session.Functions().Released()).To(BeTrue())
	})

	It("should check the big endian regression", func() {
		session, err := Open(ctx, []string{"../../testdata/00_big_endian_01/main.c", "--big-endian", "--bv"})
		Expect(err).NotTo(HaveOccurred())
		defer session.Close()

		Expect(session.Options().IsBigEndian()).To(BeTrue())

		fn, err := session.Functions().Lookup(irep.NewId("c::main"))
		Expect(err).NotTo(HaveOccurred())

		body := fn.Body()
		Expect(body.Len()).To(BeNumerically(">", 0))

		first, err := body.At(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Type).NotTo(Equal(gotoprog.NO_INSTRUCTION_TYPE))

		targets, err := body.Targets()
		Expect(err).NotTo(HaveOccurred())
		Expect(targets).NotTo(BeEmpty())

		_, err = body.At(body.Len())
		Expect(err).To(MatchError(gotoprog.ErrOutOfRange))

		again, err := session.Functions().Lookup(irep.NewId("c::main"))
		Expect(err).NotTo(HaveOccurred())
		Expect(again.Body().Instructions()).To(Equal(must(body.Instructions())))

		_, outcome, err := session.Simulate(ctx, trace.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(trace.COMPLETED))

		session.Close()

		_, err = body.At(0)
		Expect(err).To(MatchError(gotoprog.ErrSessionClosed))
	})

	Context("with a custom frontend", func() {
		var (
			mockCtrl     *gomock.Controller
			mockFrontend *MockFrontend
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockFrontend = NewMockFrontend(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should use the frontend's program", func() {
			filename := writeSource("main.c", "")

			mockFrontend.EXPECT().
				Compile(gomock.Any(), gomock.Any()).
				Return(symbol.NewContext(), failingProgram(), nil)

			session, err := Open(ctx, []string{filename}, WithFrontend(mockFrontend))
			Expect(err).NotTo(HaveOccurred())
			defer session.Close()

			t, outcome, err := session.Simulate(ctx, trace.Config{})
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(trace.VIOLATED))

			step, ok := t.Violation()
			Expect(ok).To(BeTrue())
			Expect(step.Comment).To(Equal("unreachable"))
		})

		It("should report the frontend's errors", func() {
			filename := writeSource("main.c", "int x")
			srcfile := source.NewSourceFile(filename, []byte("int x"))

			mockFrontend.EXPECT().
				Compile(gomock.Any(), gomock.Any()).
				Return(nil, nil, []source.SyntaxError{*srcfile.SyntaxError(source.NewSpan(4, 5), "expected ;")})

			_, err := Open(ctx, []string{filename}, WithFrontend(mockFrontend))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("expected ;"))
		})

		It("should release the program when cancelled during translation", func() {
			var (
				filename          = writeSource("main.c", "")
				funcs             = failingProgram()
				cancelled, cancel = context.WithCancel(ctx)
			)

			mockFrontend.EXPECT().
				Compile(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ *options.Options, _ ...*source.File) (*symbol.Context, *gotoprog.Functions,
					[]source.SyntaxError) {
					cancel()
					return symbol.NewContext(), funcs, nil
				})

			_, err := Open(cancelled, []string{filename, "--remove-skip"}, WithFrontend(mockFrontend))
			Expect(err).To(MatchError(context.Canceled))
			Expect(funcs.Released()).To(BeTrue())
		})

		It("should apply passes to the frontend's program", func() {
			filename := writeSource("main.c", "")

			mockFrontend.EXPECT().
				Compile(gomock.Any(), gomock.Any()).
				Return(symbol.NewContext(), failingProgram(), nil)

			session, err := Open(ctx, []string{filename, "--no-assertions", "--remove-skip"},
				WithFrontend(mockFrontend))
			Expect(err).NotTo(HaveOccurred())
			defer session.Close()

			Expect(session.Options().Assertions).To(BeFalse())
			Expect(session.Functions().Len()).To(Equal(1))
		})
	})
})
