package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"

	"ghostledger/native/nft"
	"ghostledger/native/staking"
	"ghostledger/native/token"
	"ghostledger/native/vesting"
)

var errBadRequest = errors.New("bad request")

var notFound = []error{
	token.ErrTokenNotFound,
	nft.ErrCollectionNotFound,
	nft.ErrNonexistentToken,
	staking.ErrPoolNotFound,
	vesting.ErrVaultNotFound,
	vesting.ErrBeneficiaryNotFound,
}

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func statusFor(err error) int {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	if errors.Is(err, errBadRequest) || errors.Is(err, nft.ErrWrongKind) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := strings.TrimSpace(err.Error())
	if status == http.StatusInternalServerError || message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// handle adapts a handler that returns its payload.
func handle(fn func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r)
		if err != nil {
			writeJSONError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func addressParam(r *http.Request, name string) (common.Address, error) {
	raw := chi.URLParam(r, name)
	if !common.IsHexAddress(raw) {
		return common.Address{}, badRequest("%s: %q is not an address", name, raw)
	}
	return common.HexToAddress(raw), nil
}

// tokenIDParam accepts decimal or 0x-prefixed hex ids.
func tokenIDParam(r *http.Request) (*uint256.Int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	var (
		id  *uint256.Int
		err error
	)
	if strings.HasPrefix(raw, "0x") {
		id, err = uint256.FromHex(raw)
	} else {
		id, err = uint256.FromDecimal(raw)
	}
	if err != nil {
		return nil, badRequest("id: %q is not a token id", raw)
	}
	return id, nil
}

func amount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func hexList(addrs []common.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}
