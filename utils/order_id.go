package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateReferenceID returns a journal reference unique enough for display
// and reconciliation, not a security token.
func GenerateReferenceID(userID uint) string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000

	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("EP-%06d%03d%d", nanoPart, randPart, userID)
}
