package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/M4N4N22/SubHub/db"
	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const nonceTTL = 10 * time.Minute

// ChallengeMessage is the exact text the wallet signs. Kept deterministic so
// the frontend and backend always agree on the signed bytes.
func ChallengeMessage(nonce string) string {
	return fmt.Sprintf("SubHub login\nNonce: %s", nonce)
}

// @Summary Request a login nonce
// @Description Issue a one-time challenge for the wallet to sign (EIP-191 personal_sign)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.NonceRequest true "Wallet address"
// @Success 200 {object} map[string]string "nonce, message"
// @Failure 400 {object} map[string]string "error: Invalid address"
// @Router /auth/nonce [post]
func RequestNonce(c *gin.Context) {
	var req models.NonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	address, err := utils.NormalizeAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	nonce := models.AuthNonce{
		Address:   address,
		Nonce:     uuid.NewString(),
		ExpiresAt: time.Now().Add(nonceTTL),
	}

	if err := db.DB.Create(&nonce).Error; err != nil {
		utils.LogError(err, "Error creating auth nonce")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":   nonce.Nonce,
		"message": ChallengeMessage(nonce.Nonce),
	})
}

// @Summary Log in with a wallet signature
// @Description Verify the personal_sign signature over the issued challenge and return a session JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Address and signature"
// @Success 200 {object} map[string]string "token"
// @Failure 401 {object} map[string]string "error: Invalid signature"
// @Router /auth/login [post]
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	address, err := utils.NormalizeAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet address"})
		return
	}

	var nonce models.AuthNonce
	err = db.DB.Where("address = ? AND expires_at > ?", address, time.Now()).
		Order("created_at DESC").
		First(&nonce).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No pending challenge for this address"})
		return
	}

	recovered, err := recoverSigner(ChallengeMessage(nonce.Nonce), req.Signature)
	if err != nil || recovered != address {
		utils.LogErrorWithWallet(address, err, "Signature verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	// One-time use: a replayed signature must not mint a second session.
	if err := db.DB.Delete(&nonce).Error; err != nil {
		utils.LogError(err, "Error consuming auth nonce")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error consuming nonce"})
		return
	}

	token, err := utils.GenerateJWT(address, 72)
	if err != nil {
		utils.LogError(err, "Error generating JWT")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
		return
	}

	utils.LogSuccessWithWallet(address, "Wallet logged in")
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// recoverSigner returns the checksummed address that produced an EIP-191
// personal_sign signature over the message.
func recoverSigner(message, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("invalid signature encoding: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("invalid signature length: %d", len(sig))
	}

	// Wallets return V as 27/28; go-ethereum expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", fmt.Errorf("signature recovery failed: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey).Hex(), nil
}
