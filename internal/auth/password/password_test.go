package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, Verify("s3cret-pass", encoded))
	assert.False(t, Verify("s3cret-Pass", encoded))

	again, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salt must differ")
}

func TestVerifyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, IsBcrypt(string(legacy)))
	assert.True(t, Verify("legacy", string(legacy)))
	assert.False(t, Verify("other", string(legacy)))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, encoded := range []string{"", "plain", "$argon2id$v=19$m=x,t=1,p=4$a$b", "$argon2i$v=19$m=1,t=1,p=1$YQ$YQ"} {
		assert.False(t, Verify("x", encoded), encoded)
	}
}
