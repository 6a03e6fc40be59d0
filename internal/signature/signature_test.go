package signature

// Test Plan for Extract:
// - A minimal class yields namespace, type name and fields up to the constructor
// - Missing package declaration returns ErrMalformedInput
// - Missing "class" yields Valid=false with no fields and no error
// - A "class" occurrence that is not followed by an identifier yields Valid=false
// - Without a constructor the member region extends to the end of input
// - Nested blocks and brace-only lines never contribute fields
// - Methods before the constructor do not leak their bodies into fields
// - Only the first class declaration from the top of the buffer is used
// - String renders "<ns>.<type> -> f1, f2\n  at <path>"
// - IsIdentifier accepts letters/underscore/dollar starts and rejects the rest
// - ExtractFile reads from disk and handles CRLF line endings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_MinimalClass(t *testing.T) {
	t.Parallel()

	lines := []string{
		"package a.b;",
		"public class Foo {",
		"private int x;",
		"public Foo() {}",
		"}",
	}

	sig, err := Extract("Foo.java", lines)

	require.NoError(t, err)
	assert.True(t, sig.Valid)
	assert.Equal(t, "a.b", sig.Namespace)
	assert.Equal(t, "Foo", sig.TypeName)
	assert.Equal(t, []string{"int"}, sig.Fields)
	assert.Equal(t, "Foo.java", sig.Path)
}

func TestExtract_MissingPackage(t *testing.T) {
	t.Parallel()

	_, err := Extract("X.java", []string{"public class X {", "int a;", "}"})

	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestExtract_NotAClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
	}{
		{
			name:  "no class token",
			lines: []string{"package a;", "public interface Foo {", "void run();", "}"},
		},
		{
			name:  "class inside string literal",
			lines: []string{"package a;", `String s = "class";`, "}"},
		},
		{
			name:  "class as part of another word",
			lines: []string{"package a;", "import a.subclass.Thing;", "public interface Foo {"},
		},
		{
			name:  "generic type name",
			lines: []string{"package a;", "public class Box<T> {", "private T value;", "}"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sig, err := Extract("Foo.java", tt.lines)

			require.NoError(t, err)
			assert.False(t, sig.Valid)
			assert.Empty(t, sig.Fields)
			assert.Empty(t, sig.TypeName)
			assert.Equal(t, "a", sig.Namespace)
		})
	}
}

func TestExtract_NoConstructorExtendsToEnd(t *testing.T) {
	t.Parallel()

	lines := []string{
		"package net.minecraft.server;",
		"",
		"public class Vec3D {",
		"   public final double x;",
		"   public final double y;",
		"   public final double z;",
		"}",
	}

	sig, err := Extract("Vec3D.java", lines)

	require.NoError(t, err)
	require.True(t, sig.Valid)
	assert.Equal(t, []string{"double", "double", "double"}, sig.Fields)
}

func TestExtract_NestedBlocksExcluded(t *testing.T) {
	t.Parallel()

	lines := []string{
		"package a;",
		"public class Outer {",
		"   class Inner { int hidden; }",
		"   private static class Holder {",
		"      private int deep;",
		"   }",
		"   private java.util.Map<String, Integer> counts;",
		"   {",
		"      int initializer;",
		"   }",
		"   private long stamp;",
		"   public Outer() {",
		"   }",
		"}",
	}

	sig, err := Extract("Outer.java", lines)

	require.NoError(t, err)
	require.True(t, sig.Valid)
	assert.Equal(t, []string{"java.util.Map<String, Integer>", "long"}, sig.Fields)
}

func TestExtract_MethodBodiesBeforeConstructor(t *testing.T) {
	t.Parallel()

	lines := []string{
		"package a;",
		"public class Entity {",
		"   private static final Logger LOGGER = LogManager.getLogger();",
		"   @Nullable private World world;",
		"   public int getId() {",
		"      int local = 1;",
		"      return local;",
		"   }",
		"   protected boolean dead;",
		"   public Entity(World world) {",
		"      this.world = world;",
		"   }",
		"   private int afterConstructor;",
		"}",
	}

	sig, err := Extract("Entity.java", lines)

	require.NoError(t, err)
	require.True(t, sig.Valid)
	assert.Equal(t, []string{"World", "boolean"}, sig.Fields)
}

func TestExtract_FirstClassWins(t *testing.T) {
	t.Parallel()

	lines := []string{
		"package a;",
		"class First {",
		"int a;",
		"}",
		"class Second {",
		"long b;",
		"}",
	}

	sig, err := Extract("First.java", lines)

	require.NoError(t, err)
	assert.Equal(t, "First", sig.TypeName)
	// No constructor, so the region runs to the end of the buffer. Depth is
	// relative to the region: First's closing brace takes it to -1 and
	// Second's opening brace brings it back to 0.
	assert.Equal(t, []string{"int", "long"}, sig.Fields)
}

func TestExtract_ClassBeforePackage(t *testing.T) {
	t.Parallel()

	lines := []string{
		"public class Odd {",
		"package a.b;",
		"private int x;",
	}

	sig, err := Extract("Odd.java", lines)

	require.NoError(t, err)
	assert.True(t, sig.Valid)
	assert.Equal(t, "Odd", sig.TypeName)
}

func TestClassSignature_String(t *testing.T) {
	t.Parallel()

	sig := ClassSignature{
		Path:      "/work/decompile-1/net/minecraft/server/Foo.java",
		Namespace: "net.minecraft.server",
		TypeName:  "Foo",
		Fields:    []string{"int", "String"},
		Valid:     true,
	}

	assert.Equal(t, "net.minecraft.server.Foo", sig.QualifiedName())
	assert.Equal(t,
		"net.minecraft.server.Foo -> int, String\n  at /work/decompile-1/net/minecraft/server/Foo.java",
		sig.String())
}

func TestIsIdentifier(t *testing.T) {
	t.Parallel()

	valid := []string{"Foo", "_foo", "$Proxy1", "a1", "Ünïcode"}
	invalid := []string{"", "1Foo", "Foo{", "Foo<T>", "a.b", "Foo;", "-x"}

	for _, s := range valid {
		assert.True(t, IsIdentifier(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsIdentifier(s), s)
	}
}

func TestExtractFile_CRLF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.java")
	content := strings.Join([]string{
		"package a.b;",
		"public class Foo {",
		"   private final int count;",
		"   public Foo() {}",
		"}",
	}, "\r\n") + "\r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	sig, err := ExtractFile(path)

	require.NoError(t, err)
	assert.Equal(t, "a.b", sig.Namespace)
	assert.Equal(t, []string{"int"}, sig.Fields)
	assert.Equal(t, path, sig.Path)
}

func TestExtractFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ExtractFile(filepath.Join(t.TempDir(), "nope.java"))

	assert.Error(t, err)
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\r\nb"))
}
