// Package otp implementa códigos TOTP (RFC 6238 sobre HOTP, RFC 4226) para
// el segundo factor por correo: 6 dígitos con paso de 300 segundos, que es
// a la vez el tiempo de vida del código enviado.
package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"time"
)

// Period es el paso TOTP en segundos (los códigos expiran en 5 minutos).
const Period = 300

// Digits es la longitud del código.
const Digits = 6

// NewSecret genera un secreto aleatorio en base32 (20 bytes, sin padding).
func NewSecret() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("otp: generar secreto: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

// Generate devuelve el código TOTP vigente para el secreto en el instante dado.
func Generate(secret string, at time.Time) (string, error) {
	return hotp(secret, uint64(at.Unix())/Period)
}

// Verify compara el código contra la ventana vigente y la inmediatamente
// anterior (tolera el cambio de ventana entre el envío del correo y la
// escritura del usuario). Comparación en tiempo constante.
func Verify(secret, code string, at time.Time) bool {
	if len(code) != Digits {
		return false
	}
	counter := uint64(at.Unix()) / Period
	for _, c := range []uint64{counter, counter - 1} {
		expected, err := hotp(secret, c)
		if err != nil {
			return false
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 {
			return true
		}
	}
	return false
}

// hotp calcula el código HOTP (RFC 4226) para un contador.
func hotp(secret string, counter uint64) (string, error) {
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	if err != nil {
		return "", fmt.Errorf("otp: secreto inválido: %w", err)
	}
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Truncamiento dinámico (RFC 4226 §5.3)
	offset := sum[len(sum)-1] & 0x0f
	value := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%06d", value%1_000_000), nil
}
