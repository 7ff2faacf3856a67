package ethereum

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestValidateMsgSignature(t *testing.T) {
	req := require.New(t)
	privateKey, err := crypto.GenerateKey()
	req.NoError(err)
	signer := crypto.PubkeyToAddress(privateKey.PublicKey).Hex()
	message := []byte(fmt.Sprintf("sign in to marketcore as %s", "acct-1"))
	signature, err := crypto.Sign(accounts.TextHash(message), privateKey)
	req.NoError(err)
	sig := hexutil.Encode(signature)

	ok, err := ValidateMsgSignature(message, sig, signer)
	req.NoError(err)
	req.True(ok)

	ok, err = ValidateMsgSignature([]byte("sign in to marketcore as acct-2"), sig, signer)
	req.NoError(err)
	req.False(ok)

	other, err := crypto.GenerateKey()
	req.NoError(err)
	ok, err = ValidateMsgSignature(message, sig, crypto.PubkeyToAddress(other.PublicKey).Hex())
	req.NoError(err)
	req.False(ok)

	_, err = ValidateMsgSignature(message, "not-hex", signer)
	req.Error(err)

	_, err = ValidateMsgSignature(message, "0x1234", signer)
	req.Error(err)
}
