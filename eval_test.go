package calculator_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/zephyrtronium/calculator"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"add", "1+2", "3"},
		{"mul-add", "2*3+4", "10"},
		{"add-mul", "2+3*4", "14"},
		{"parens", "(2+3)*4", "20"},
		{"pow-right-assoc", "2^3^2", "512"},
		{"pow-grouped", "(2^3)^2", "64"},
		{"negative", "(-5)+3", "-2"},
		{"sub-left-assoc", "10-4-3", "3"},
		{"div-left-assoc", "100/10/5", "2"},
		{"sub-negative", "10-(-5)", "15"},
		{"mul-negative", "(2+3)*(-4)", "-20"},
		{"neg-pow", "2^(-2)", "0.25"},
		{"third", "1/3", "0.333333333333333333"},
		{"two-thirds", "2/3", "0.666666666666666667"},
		{"neg-two-thirds", "(-2)/3", "-0.666666666666666667"},
		{"third-times-three", "1/3*3", "0.999999999999999999"},
		{"tenths", "0.1+0.2", "0.3"},
		{"decimals", "1.5*1.5", "2.25"},
		{"spaces", " 1 + 2 * ( 3 - 1 ) ", "5"},
		{"sqrt", "2^0.5", "1.414213562373095049"},
		{"big", "99999999999999999999*99999999999999999999", "9999999999999999999800000000000000000001"},
		{"source-vector", "((10 * (24 / ((9 + 3) * (-2)))) + 17) + 5", "12"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := calculator.Calculate(c.src)
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			if got != c.want {
				t.Errorf("%q: want %s, got %s", c.src, c.want, got)
			}
		})
	}
}

func TestCalculateScaled(t *testing.T) {
	cases := []struct {
		name  string
		scale int
		round bool
		src   string
		want  string
	}{
		{"third", 2, true, "1/3", "0.33"},
		{"quarter", 2, true, "10/4", "2.5"},
		{"half-up-literal", 2, true, "1.005", "1.01"},
		{"half-up-div", 2, true, "2/3", "0.67"},
		{"truncate-div", 2, false, "2/3", "0.66"},
		{"truncate-literal", 2, false, "1.009", "1"},
		{"neg-half-up", 2, true, "(-1.005)", "-1.01"},
		{"integers", 0, true, "7/2", "4"},
		{"integers-trunc", 0, false, "7/2", "3"},
		{"wide", 40, true, "1/7", "0.1428571428571428571428571428571428571429"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := calculator.NewEngine(calculator.Scale(c.scale), calculator.RoundHalfUp(c.round))
			got, err := e.Calculate(c.src)
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			if got != c.want {
				t.Errorf("%q: want %s, got %s", c.src, c.want, got)
			}
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	var (
		invalid   *calculator.InvalidExpressionError
		malformed *calculator.MalformedLiteralError
		divzero   *calculator.DivisionByZeroError
		domain    *calculator.DomainError
	)
	cases := []struct {
		name   string
		src    string
		target interface{}
	}{
		{"unbalanced", "(2+3", &invalid},
		{"div-zero", "5/0", &divzero},
		{"div-zero-expr", "5/(3-3)", &divzero},
		{"empty", "", &invalid},
		{"leading-minus", "-5+3", &invalid},
		{"letters", "x+1", &invalid},
		{"two-points", "1.2.3+1", &malformed},
		{"lone-point", "(.)", &malformed},
		{"neg-root", "(-4)^0.5", &domain},
		{"zero-neg-pow", "0^(-1)", &divzero},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calculator.Calculate(c.src)
			if err == nil {
				t.Fatalf("%q: expected error, got %s", c.src, r)
			}
			if r != "" {
				t.Errorf("%q: non-empty result %q with error", c.src, r)
			}
			if !errors.As(err, c.target) {
				t.Errorf("%q: wrong error type %#v", c.src, err)
			}
		})
	}
}

func TestEvaluatePostfix(t *testing.T) {
	cases := []struct {
		name string
		rpn  []string
		want string
	}{
		{"num", []string{"7"}, "7"},
		{"sub-order", []string{"1", "2", "-"}, "-1"},
		{"div-order", []string{"6", "3", "/"}, "2"},
		{"div-order-frac", []string{"3", "6", "/"}, "0.5"},
		{"pow-order", []string{"2", "3", "^"}, "8"},
		{"negative", []string{"-5", "3", "+"}, "-2"},
		{"chain", []string{"1", "2", "3", "*", "+"}, "7"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := calculator.EvaluatePostfix(c.rpn)
			if err != nil {
				t.Fatalf("%q: %v", c.rpn, err)
			}
			if got != c.want {
				t.Errorf("%q: want %s, got %s", c.rpn, c.want, got)
			}
		})
	}
}

func TestEvaluatePostfixErrors(t *testing.T) {
	t.Run("underflow", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix([]string{"1", "+"})
		var u *calculator.StackUnderflowError
		if !errors.As(err, &u) {
			t.Fatalf("%#v is not *StackUnderflowError", err)
		}
		if u.Op != "+" || u.Index != 1 || u.Have != 1 {
			t.Errorf("wrong details: %+v", u)
		}
	})
	t.Run("underflow-empty", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix([]string{"*"})
		var u *calculator.StackUnderflowError
		if !errors.As(err, &u) {
			t.Fatalf("%#v is not *StackUnderflowError", err)
		}
		if u.Have != 0 {
			t.Errorf("wrong details: %+v", u)
		}
	})
	t.Run("empty", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix(nil)
		var r *calculator.EmptyResultError
		if !errors.As(err, &r) {
			t.Fatalf("%#v is not *EmptyResultError", err)
		}
		if r.Len != 0 {
			t.Errorf("wrong length %d", r.Len)
		}
	})
	t.Run("leftover", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix([]string{"1", "2"})
		var r *calculator.EmptyResultError
		if !errors.As(err, &r) {
			t.Fatalf("%#v is not *EmptyResultError", err)
		}
		if r.Len != 2 {
			t.Errorf("wrong length %d", r.Len)
		}
	})
	t.Run("variable", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix([]string{"x", "1", "+"})
		var n *calculator.NameError
		if !errors.As(err, &n) {
			t.Fatalf("%#v is not *NameError", err)
		}
		if n.Name != "x" || !strings.Contains(err.Error(), "undefined variable") {
			t.Errorf("wrong details: %v", err)
		}
	})
	t.Run("stray-paren", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix([]string{"1", "2", "+", "("})
		var ie *calculator.InvalidExpressionError
		if !errors.As(err, &ie) {
			t.Fatalf("%#v is not *InvalidExpressionError", err)
		}
	})
	t.Run("unopened", func(t *testing.T) {
		rpn, err := calculator.ToPostfix([]string{"1", "+", "2", ")", ")"})
		if err != nil {
			t.Fatal(err)
		}
		r, err := calculator.EvaluatePostfix(rpn)
		var ie *calculator.InvalidExpressionError
		if !errors.As(err, &ie) {
			t.Fatalf("%q gave %q, %#v; want *InvalidExpressionError", rpn, r, err)
		}
		if ie.Text != ")" {
			t.Errorf("wrong term %q", ie.Text)
		}
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix([]string{"1", "#"})
		var ie *calculator.InvalidExpressionError
		if !errors.As(err, &ie) {
			t.Fatalf("%#v is not *InvalidExpressionError", err)
		}
	})
	t.Run("div-zero", func(t *testing.T) {
		_, err := calculator.EvaluatePostfix([]string{"1", "0", "/"})
		var dz *calculator.DivisionByZeroError
		if !errors.As(err, &dz) {
			t.Fatalf("%#v is not *DivisionByZeroError", err)
		}
	})
}

func TestPipelineComposes(t *testing.T) {
	src := "((10 * (24 / ((9 + 3) * (-2)))) + 17) + 5"
	terms, err := calculator.SplitTerms(src)
	if err != nil {
		t.Fatal(err)
	}
	rpn, err := calculator.ToPostfix(terms)
	if err != nil {
		t.Fatal(err)
	}
	got, err := calculator.EvaluatePostfix(rpn)
	if err != nil {
		t.Fatal(err)
	}
	want, err := calculator.Calculate(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != want || got != "12" {
		t.Errorf("composed pipeline gave %s, Calculate gave %s", got, want)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	srcs := []string{"1/3", "2^0.5", "(-7)/9*3+1.25", "((1.1+2.2)*3.3)^2"}
	for _, src := range srcs {
		first, err := calculator.Calculate(src)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		for i := 0; i < 10; i++ {
			if r, _ := calculator.Calculate(src); r != first {
				t.Errorf("%q: got %s then %s", src, first, r)
			}
		}
	}
}

func TestEnginesConcurrent(t *testing.T) {
	engines := []*calculator.Engine{
		calculator.NewEngine(calculator.Scale(2)),
		calculator.NewEngine(calculator.Scale(2), calculator.RoundHalfUp(false)),
		calculator.NewEngine(),
	}
	want := []string{"0.67", "0.66", "0.666666666666666667"}
	var wg sync.WaitGroup
	errs := make(chan error, 64*len(engines))
	for i := 0; i < 64; i++ {
		for k, e := range engines {
			wg.Add(1)
			go func(e *calculator.Engine, want string) {
				defer wg.Done()
				r, err := e.Calculate("2/3")
				switch {
				case err != nil:
					errs <- err
				case r != want:
					errs <- fmt.Errorf("want %s, got %s", want, r)
				}
			}(e, want[k])
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkCalculate(b *testing.B) {
	b.Run("ints", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			calculator.Calculate("((10 * (24 / ((9 + 3) * (-2)))) + 17) + 5")
		}
	})
	b.Run("decimals", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			calculator.Calculate("1.0000001^365 / 3.14159")
		}
	})
}

func Example() {
	r, err := calculator.Calculate("((10 * (24 / ((9 + 3) * (-2)))) + 17) + 5")
	if err != nil {
		panic(err)
	}
	fmt.Println(r)
	// Output: 12
}

func ExampleNewEngine() {
	money := calculator.NewEngine(calculator.Scale(2))
	floor := calculator.NewEngine(calculator.Scale(2), calculator.RoundHalfUp(false))
	for _, src := range []string{"10/4", "2/3", "1.005"} {
		a, _ := money.Calculate(src)
		b, _ := floor.Calculate(src)
		fmt.Println(src, a, b)
	}
	// Output:
	// 10/4 2.5 2.5
	// 2/3 0.67 0.66
	// 1.005 1.01 1
}

func ExampleSplitTerms() {
	terms, _ := calculator.SplitTerms("(-2) * (3 + 4)")
	rpn, _ := calculator.ToPostfix(terms)
	fmt.Printf("%q\n%q\n", terms, rpn)
	// Output:
	// ["(" "-2" ")" "*" "(" "3" "+" "4" ")"]
	// ["-2" "3" "4" "+" "*"]
}

func TestEvaluateUnknownTokens(t *testing.T) {
	one := calculator.Token{Kind: calculator.TokenNumber, Text: "1"}
	cases := []struct {
		name string
		rpn  []calculator.Token
	}{
		{"bad-op", []calculator.Token{one, one, {Kind: calculator.TokenOperator, Text: "%"}}},
		{"out-of-range-op", []calculator.Token{one, one, {Kind: calculator.TokenOperator, Text: "+", Op: calculator.OperatorKind(42)}}},
		{"zero-token", []calculator.Token{one, {}}},
		{"unknown-kind", []calculator.Token{{Kind: calculator.TokenKind(99), Text: "?"}}},
	}
	e := calculator.NewEngine()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := e.Evaluate(calculator.Postfix(c.rpn))
			var ie *calculator.InvalidExpressionError
			if !errors.As(err, &ie) {
				t.Fatalf("got %v, %#v; want *InvalidExpressionError", r, err)
			}
		})
	}
}
