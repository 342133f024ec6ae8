// Package mschap はMS-CHAP（v1, RFC 2433）検証に必要な暗号プリミティブを提供する。
// MS-CHAPv2はlayeh.com/radius/rfc2759が実装しているため、ここにはv1の
// NT-Response計算に必要な要素のみ置く。
package mschap

import (
	"crypto/des"
	"fmt"
	"unicode/utf16"

	"golang.org/x/crypto/md4"
)

// NTHash はパスワードのNT-Hashを計算する。
// UTF-16LE（BOMなし・終端なし）にエンコードしてMD4を適用した16バイト。
func NTHash(password string) []byte {
	codes := utf16.Encode([]rune(password))
	buf := make([]byte, len(codes)*2)
	for i, c := range codes {
		buf[i*2] = byte(c)
		buf[i*2+1] = byte(c >> 8)
	}
	h := md4.New()
	h.Write(buf)
	return h.Sum(nil)
}

// expandDESKey は7バイト鍵を8バイトDES鍵に拡張する。
// 各バイトの下位1bitはパリティ用のプレースホルダで0のまま残す。
func expandDESKey(k7 []byte) []byte {
	k8 := make([]byte, 8)
	k8[0] = k7[0] & 0xFE
	for i := 1; i < 7; i++ {
		k8[i] = ((k7[i-1] << (8 - i)) | (k7[i] >> i)) & 0xFE
	}
	k8[7] = (k7[6] << 1) & 0xFE
	return k8
}

// EncryptChallenge は16バイトのパスワードハッシュを21バイトにゼロ拡張し、
// 7バイトずつ3つのDES鍵として8バイトチャレンジをECB暗号化した
// 24バイトの応答を返す（RFC 2433 A.5 ChallengeResponse）。
func EncryptChallenge(hash16, challenge8 []byte) ([]byte, error) {
	if len(hash16) != 16 {
		return nil, fmt.Errorf("password hash must be 16 bytes, got %d", len(hash16))
	}
	if len(challenge8) != 8 {
		return nil, fmt.Errorf("challenge must be 8 bytes, got %d", len(challenge8))
	}

	zhash := make([]byte, 21)
	copy(zhash, hash16)

	response := make([]byte, 24)
	for i := 0; i < 3; i++ {
		block, err := des.NewCipher(expandDESKey(zhash[i*7 : i*7+7]))
		if err != nil {
			return nil, fmt.Errorf("des cipher: %w", err)
		}
		block.Encrypt(response[i*8:i*8+8], challenge8)
	}
	return response, nil
}

// NTResponseV1 はMS-CHAP（v1）のNT-Responseを計算する。
// チャレンジはMS-CHAP-Challenge属性の8バイトをそのまま使う。
func NTResponseV1(challenge8 []byte, password string) ([]byte, error) {
	return EncryptChallenge(NTHash(password), challenge8)
}
