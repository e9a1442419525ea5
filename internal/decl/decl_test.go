package decl

import (
	"reflect"
	"testing"

	"github.com/hollis/go-doc2man/internal/diag"
	"github.com/hollis/go-doc2man/internal/scan"
)

// classifyOne runs Classify on a bare declaration and returns the single
// unit most tests care about.
func classifyOne(t *testing.T, declText string) Unit {
	t.Helper()
	diags := &diag.List{}
	units := Classify("t.h", scan.Block{Decl: declText, DeclLine: 1}, diags)
	if diags.HasErrors() {
		t.Fatalf("unexpected error diagnostics: %v", diags.All())
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1: %+v", len(units), units)
	}
	return units[0]
}

// ---------------------------------------------------------------------------
// TestClassify_Functions - function prototypes
// ---------------------------------------------------------------------------

func TestClassify_Functions(t *testing.T) {
	t.Parallel()

	t.Run("no arguments", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "void nop(void)")
		if u.Kind != Function || u.Name != "nop" {
			t.Fatalf("unit = %+v", u)
		}
		if !u.NoArgs || u.Variadic || len(u.Params) != 0 {
			t.Errorf("params = %+v, NoArgs = %v", u.Params, u.NoArgs)
		}
		if u.ReturnType != "void" {
			t.Errorf("return type = %q", u.ReturnType)
		}
	})

	t.Run("variadic with named parameters", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "int println(char *buf, const char *fmt, ...)")
		if u.Name != "println" || u.ReturnType != "int" {
			t.Fatalf("unit = %+v", u)
		}
		if !u.Variadic {
			t.Error("want variadic")
		}
		want := []Param{
			{Type: "char *", Name: "buf"},
			{Type: "const char *", Name: "fmt"},
		}
		if !reflect.DeepEqual(u.Params, want) {
			t.Errorf("params = %+v, want %+v", u.Params, want)
		}
	})

	t.Run("qualified pointers", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "volatile int *baz(int *a, volatile int *b, const Bar *restrict c)")
		if u.Name != "baz" {
			t.Fatalf("name = %q", u.Name)
		}
		if u.ReturnType != "volatile int *" {
			t.Errorf("return type = %q", u.ReturnType)
		}
		if len(u.Params) != 3 {
			t.Fatalf("params = %+v", u.Params)
		}
		names := []string{u.Params[0].Name, u.Params[1].Name, u.Params[2].Name}
		if names[0] != "a" || names[1] != "b" || names[2] != "c" {
			t.Errorf("param names = %v", names)
		}
		if u.Params[2].Type != "const Bar *restrict" {
			t.Errorf("param 2 type = %q", u.Params[2].Type)
		}
	})

	t.Run("array parameter", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "size_t fill(char out[64], size_t n)")
		if u.Params[0].Name != "out" || u.Params[0].Array != "[64]" {
			t.Errorf("param 0 = %+v", u.Params[0])
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Enums - enumerations
// ---------------------------------------------------------------------------

func TestClassify_Enums(t *testing.T) {
	t.Parallel()

	t.Run("constants with values and comments", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "enum Frob\n{\n    /*! \\brief First. */\n    FOO,\n    BAZ = 100,\n}")
		if u.Kind != Enum || u.Name != "Frob" {
			t.Fatalf("unit = %+v", u)
		}
		if len(u.Members) != 2 {
			t.Fatalf("members = %+v", u.Members)
		}
		if u.Members[0].Name != "FOO" || u.Members[0].Comment != "\\brief First." {
			t.Errorf("member 0 = %+v", u.Members[0])
		}
		if u.Members[1].Name != "BAZ" || u.Members[1].Value != "100" {
			t.Errorf("member 1 = %+v", u.Members[1])
		}
	})

	t.Run("empty enumeration", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "enum Empty {}")
		if u.Kind != Enum || u.Name != "Empty" || len(u.Members) != 0 {
			t.Errorf("unit = %+v", u)
		}
	})

	t.Run("postfix comments attach to the preceding constant", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "enum Level\n{\n    LOW, /*!< Quietest. */\n    HIGH /*!< Loudest. */\n}")
		if len(u.Members) != 2 {
			t.Fatalf("members = %+v", u.Members)
		}
		if u.Members[0].Comment != "Quietest." {
			t.Errorf("member 0 comment = %q", u.Members[0].Comment)
		}
		if u.Members[1].Comment != "Loudest." {
			t.Errorf("member 1 comment = %q", u.Members[1].Comment)
		}
	})

	t.Run("forward declaration", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "enum Opaque")
		if u.Kind != Enum || u.Name != "Opaque" || len(u.Members) != 0 {
			t.Errorf("unit = %+v", u)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Composites - structs and unions
// ---------------------------------------------------------------------------

func TestClassify_Composites(t *testing.T) {
	t.Parallel()

	t.Run("fields with arrays and bitfields", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "struct Packet\n{\n    /*! \\brief Body length. */\n    int count;\n    char name[32];\n    unsigned flags : 4;\n}")
		if u.Kind != Struct || u.Name != "Packet" {
			t.Fatalf("unit = %+v", u)
		}
		if len(u.Members) != 3 {
			t.Fatalf("members = %+v", u.Members)
		}
		if u.Members[0].Name != "count" || u.Members[0].Type != "int" || u.Members[0].Comment != "\\brief Body length." {
			t.Errorf("member 0 = %+v", u.Members[0])
		}
		if u.Members[1].Name != "name" || u.Members[1].Args != "[32]" {
			t.Errorf("member 1 = %+v", u.Members[1])
		}
		if u.Members[2].Name != "flags" || u.Members[2].Args != " : 4" {
			t.Errorf("member 2 = %+v", u.Members[2])
		}
	})

	t.Run("nested anonymous struct attaches children", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "struct Foo\n{\n    struct\n    {\n        int qux;\n    } bar;\n}")
		if len(u.Members) != 1 {
			t.Fatalf("members = %+v", u.Members)
		}
		m := u.Members[0]
		if m.Name != "bar" || len(m.Children) != 1 || m.Children[0].Name != "qux" {
			t.Errorf("member = %+v", m)
		}
	})

	t.Run("nested named struct is indexed separately", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("t.h", scan.Block{
			Decl:     "struct Qux\n{\n    struct Inner\n    {\n        int depth;\n    } inner;\n}",
			DeclLine: 1,
		}, diags)
		if len(units) != 2 {
			t.Fatalf("units = %+v", units)
		}
		if units[0].Name != "Qux" || units[0].Members[0].Name != "inner" {
			t.Errorf("outer = %+v", units[0])
		}
		if units[1].Kind != Struct || units[1].Name != "Inner" || units[1].Members[0].Name != "depth" {
			t.Errorf("inner = %+v", units[1])
		}
	})

	t.Run("union", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "union Value\n{\n    long i;\n    double f;\n}")
		if u.Kind != Union || len(u.Members) != 2 {
			t.Errorf("unit = %+v", u)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Typedefs - typedef shapes
// ---------------------------------------------------------------------------

func TestClassify_Typedefs(t *testing.T) {
	t.Parallel()

	t.Run("scalar alias", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "typedef int handle_t")
		if u.Kind != Typedef || u.Name != "handle_t" || u.Type != "int" {
			t.Errorf("unit = %+v", u)
		}
	})

	t.Run("tag alias records the aliased tag", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "typedef struct Zippy Zippy")
		if u.Kind != Typedef || u.Name != "Zippy" {
			t.Fatalf("unit = %+v", u)
		}
		if u.AliasTag != "Zippy" || u.TagKind != Struct {
			t.Errorf("alias tag = %q, tag kind = %v", u.AliasTag, u.TagKind)
		}
	})

	t.Run("pointer alias does not record a tag", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "typedef struct Node *node_ref")
		if u.Name != "node_ref" || u.AliasTag != "" {
			t.Errorf("unit = %+v", u)
		}
	})

	t.Run("anonymous enum takes the typedef name", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "typedef enum\n{\n    GOOD,\n    BAD,\n} frob_t")
		if u.Kind != Enum || u.Name != "frob_t" {
			t.Fatalf("unit = %+v", u)
		}
		if len(u.Aliases) != 0 || len(u.Members) != 2 {
			t.Errorf("aliases = %v, members = %+v", u.Aliases, u.Members)
		}
	})

	t.Run("named struct with alias", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "typedef struct String\n{\n    size_t length;\n    char *data;\n} string_t")
		if u.Kind != Struct || u.Name != "String" {
			t.Fatalf("unit = %+v", u)
		}
		if len(u.Aliases) != 1 || u.Aliases[0] != "string_t" {
			t.Errorf("aliases = %v", u.Aliases)
		}
		if len(u.Members) != 2 || u.Members[1].Name != "data" || u.Members[1].Type != "char *" {
			t.Errorf("members = %+v", u.Members)
		}
	})

	t.Run("function pointer", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "typedef void (*callback_t)(int code, void *ctx)")
		if u.Kind != Typedef || u.Name != "callback_t" {
			t.Errorf("unit = %+v", u)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Macros - object-like and function-like macros
// ---------------------------------------------------------------------------

func TestClassify_Macros(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		decl         string
		wantName     string
		functionLike bool
		wantParams   []string
		wantInit     string
	}{
		{
			name:     "bare flag",
			decl:     "#define ENABLE_AWESOME_FEATURE",
			wantName: "ENABLE_AWESOME_FEATURE",
		},
		{
			name:     "object-like with value",
			decl:     `#define INVALID_KEY "InvalidKey"`,
			wantName: "INVALID_KEY",
			wantInit: `"InvalidKey"`,
		},
		{
			name:         "function-like",
			decl:         "#define ADD(X, Y) ((X) + (Y))",
			wantName:     "ADD",
			functionLike: true,
			wantParams:   []string{"X", "Y"},
			wantInit:     "((X) + (Y))",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := classifyOne(t, tt.decl)
			if u.Kind != Macro || u.Name != tt.wantName {
				t.Fatalf("unit = %+v", u)
			}
			if u.FunctionLike != tt.functionLike {
				t.Errorf("FunctionLike = %v", u.FunctionLike)
			}
			if len(u.Params) != len(tt.wantParams) {
				t.Fatalf("params = %+v", u.Params)
			}
			for i, want := range tt.wantParams {
				if u.Params[i].Name != want {
					t.Errorf("param %d = %q, want %q", i, u.Params[i].Name, want)
				}
			}
			if u.Initializer != tt.wantInit {
				t.Errorf("initializer = %q, want %q", u.Initializer, tt.wantInit)
			}
		})
	}

	t.Run("variadic macro", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "#define LOG(fmt, ...) log_impl(fmt, __VA_ARGS__)")
		if !u.Variadic || len(u.Params) != 1 || u.Params[0].Name != "fmt" {
			t.Errorf("unit = %+v", u)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Variables - extern variables
// ---------------------------------------------------------------------------

func TestClassify_Variables(t *testing.T) {
	t.Parallel()

	t.Run("extern array", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "extern char scratch_buffer[64]")
		if u.Kind != Variable || u.Name != "scratch_buffer" {
			t.Fatalf("unit = %+v", u)
		}
		if u.Type != "char" || u.Args != "[64]" {
			t.Errorf("type = %q, args = %q", u.Type, u.Args)
		}
	})

	t.Run("qualified pointer", func(t *testing.T) {
		t.Parallel()
		u := classifyOne(t, "extern const struct FooBar **FooBarDefaultValue")
		if u.Name != "FooBarDefaultValue" || u.Type != "const struct FooBar **" {
			t.Errorf("unit = %+v", u)
		}
	})
}

// ---------------------------------------------------------------------------
// TestClassify_Directives - \file, group, and \var comments
// ---------------------------------------------------------------------------

func TestClassify_Directives(t *testing.T) {
	t.Parallel()

	t.Run("file directive", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("escapes.h", scan.Block{
			Comment:     "\\file escapes.h\n\\brief Odd characters.",
			CommentLine: 1,
		}, diags)
		if len(units) != 1 || units[0].Kind != File || units[0].Name != "escapes.h" {
			t.Fatalf("units = %+v", units)
		}
		if units[0].Comment == "" {
			t.Error("file unit should keep its comment")
		}
	})

	t.Run("defgroup with opening marker", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("t.h", scan.Block{
			Comment:     "\\defgroup utils Utility functions\n@{",
			CommentLine: 1,
		}, diags)
		if len(units) != 1 {
			t.Fatalf("units = %+v", units)
		}
		u := units[0]
		if u.Kind != GroupOpen || u.Name != "utils" || u.GroupTitle != "Utility functions" {
			t.Errorf("unit = %+v", u)
		}
		if !u.Opens {
			t.Error("want Opens")
		}
	})

	t.Run("addtogroup without marker", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("t.h", scan.Block{
			Comment:     "\\addtogroup utils",
			CommentLine: 1,
		}, diags)
		if len(units) != 1 || units[0].Kind != GroupOpen || units[0].Opens {
			t.Fatalf("units = %+v", units)
		}
		if units[0].GroupTitle != "" {
			t.Errorf("title = %q", units[0].GroupTitle)
		}
	})

	t.Run("closing marker", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("t.h", scan.Block{Comment: "@}", CommentLine: 9}, diags)
		if len(units) != 1 || units[0].Kind != GroupClose {
			t.Fatalf("units = %+v", units)
		}
	})

	t.Run("member redocumentation", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("t.h", scan.Block{
			Comment:     "\\var Frob::FOO\n\\brief Overridden description.",
			CommentLine: 1,
		}, diags)
		if len(units) != 1 || units[0].Kind != MemberDoc || units[0].Name != "Frob::FOO" {
			t.Fatalf("units = %+v", units)
		}
	})

	t.Run("directive comment is not attached to the following declaration", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("t.h", scan.Block{
			Comment:     "\\defgroup g Group\n@{",
			CommentLine: 1,
			Decl:        "void f(void)",
			DeclLine:    3,
		}, diags)
		if len(units) != 2 {
			t.Fatalf("units = %+v", units)
		}
		if units[0].Kind != GroupOpen || units[1].Kind != Function {
			t.Fatalf("kinds = %v, %v", units[0].Kind, units[1].Kind)
		}
		if units[1].Comment != "" || units[1].CommentLine != 0 {
			t.Errorf("function kept the directive comment: %+v", units[1])
		}
	})

	t.Run("plain orphan comment is preserved as unknown", func(t *testing.T) {
		t.Parallel()
		diags := &diag.List{}
		units := Classify("t.h", scan.Block{
			Comment:     "\\brief Nothing follows this.",
			CommentLine: 4,
		}, diags)
		if len(units) != 1 || units[0].Kind != Unknown {
			t.Fatalf("units = %+v", units)
		}
		if units[0].Comment != "\\brief Nothing follows this." {
			t.Errorf("comment = %q", units[0].Comment)
		}
	})
}
