package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickScan_SQLInjection(t *testing.T) {
	code := `$result = mysqli_query($conn, "SELECT * FROM users WHERE id = " . $_GET['id']);`
	hints := QuickScan(code)
	require.NotEmpty(t, hints)
	assert.Contains(t, hints[0], "SQL injection")
}

func TestQuickScan_WeakPasswordHandling(t *testing.T) {
	code := `$hash = md5($password);`
	hints := QuickScan(code)
	require.NotEmpty(t, hints)
	assert.Contains(t, hints[0], "password_hash/bcrypt")
}

func TestQuickScan_HardcodedSecret(t *testing.T) {
	hints := QuickScan(`api_key = "abc123def456"`)
	require.NotEmpty(t, hints)
	assert.Contains(t, hints[0], "hardcoded secret")

	hints = QuickScan(`const token = "sk-aaaaaaaaaaaaaaaaaaaaaaaa";`)
	require.NotEmpty(t, hints)
	assert.Contains(t, hints[0], "hardcoded secret")
}

func TestQuickScan_CleanCodeYieldsNoHints(t *testing.T) {
	code := `func add(a, b int) int { return a + b }`
	assert.Empty(t, QuickScan(code))
}

func TestQuickScan_PasswordHashIsNotFlagged(t *testing.T) {
	code := `$hash = password_hash($password, PASSWORD_DEFAULT);`
	for _, h := range QuickScan(code) {
		assert.NotContains(t, h, "insecure auth")
	}
}
