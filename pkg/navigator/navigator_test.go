package navigator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/naoko/pkg/utils"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

const orderControllerJava = `package com.example.orders;

import com.example.orders.OrderService;
import com.example.orders.dto.OrderDTO;
import java.util.List;
import org.springframework.web.bind.annotation.RestController;

public class OrderController {
    private OrderService orderService;
    private PaymentClient paymentClient;
}
`

func TestFindRelatedFilesResolvesCollaborators(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/OrderController.java": orderControllerJava,
		"src/OrderService.java":    "public class OrderService {}",
		"src/PaymentClient.java":   "public class PaymentClient {}",
		"src/dto/OrderDTO.java":    "public class OrderDTO {}",
		"src/Unrelated.java":       "public class Unrelated {}",
	})
	entry := filepath.Join(root, "src", "OrderController.java")

	nav := New(root, utils.GetLogger(true))
	related, err := nav.FindRelatedFiles(entry)
	require.NoError(t, err)

	assert.Equal(t, entry, related[0], "the entry point is always first")
	assert.Contains(t, related, filepath.Join(root, "src", "OrderService.java"))
	assert.Contains(t, related, filepath.Join(root, "src", "PaymentClient.java"))
	assert.Contains(t, related, filepath.Join(root, "src", "dto", "OrderDTO.java"))
	assert.NotContains(t, related, filepath.Join(root, "src", "Unrelated.java"))
}

func TestFindRelatedFilesSkipsFrameworkTypes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Main.java": "import java.util.List;\npublic class Main { private List items; }",
		"src/List.java": "public class List {}",
	})
	entry := filepath.Join(root, "src", "Main.java")

	related, err := New(root, utils.GetLogger(true)).FindRelatedFiles(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{entry}, related)
}

func TestFindRelatedFilesHonorsIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":               "build/\n",
		"src/Main.java":            "public class Main { private OrderService orderService; }",
		"build/OrderService.java":  "public class OrderService {}",
		"src/OrderService.java":    "public class OrderService {}",
	})
	entry := filepath.Join(root, "src", "Main.java")

	related, err := New(root, utils.GetLogger(true)).FindRelatedFiles(entry)
	require.NoError(t, err)
	assert.Contains(t, related, filepath.Join(root, "src", "OrderService.java"))
	assert.NotContains(t, related, filepath.Join(root, "build", "OrderService.java"))
}

func TestFindRelatedFilesMissingEntryPoint(t *testing.T) {
	nav := New(t.TempDir(), utils.GetLogger(true))
	_, err := nav.FindRelatedFiles(filepath.Join(t.TempDir(), "nope.java"))
	assert.Error(t, err)
}

func TestStyleProfile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":      "package a\n\nfunc A() {\n\treturn\n}\n",
		"b/b.go":    "package b\n\nfunc B() {\n\treturn\n}\n",
		"Main.java": "public class Main {\n    void run() {}\n}\n",
	})
	files := []string{
		filepath.Join(root, "a.go"),
		filepath.Join(root, "b", "b.go"),
		filepath.Join(root, "Main.java"),
	}

	profile := New(root, utils.GetLogger(true)).StyleProfile(files)
	assert.Contains(t, profile, "Related files: 3")
	assert.Contains(t, profile, ".go (2 files)")
	assert.Contains(t, profile, ".java (1 files)")
	assert.Contains(t, profile, "Indentation: tabs")
	assert.Contains(t, profile, "Average file length:")
}

func TestStyleProfileEmpty(t *testing.T) {
	assert.Empty(t, New(t.TempDir(), utils.GetLogger(true)).StyleProfile(nil))
}
