// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mintcp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/sha1"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/cast5"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/salsa20"
	"golang.org/x/crypto/tea"
	"golang.org/x/crypto/twofish"
	"golang.org/x/crypto/xtea"
)

var (
	initialVector = []byte{167, 115, 79, 156, 18, 172, 27, 1, 62, 228, 7, 222, 169, 227, 192, 52}
	saltxor       = `sH3CIVoF#rWLtJo6`
)

// BlockCrypt encrypts and decrypts whole packets. Every packet starts
// with a random nonce, so stateless chaining from a fixed IV is enough to
// make ciphertexts unique.
type BlockCrypt interface {
	// Encrypt ciphers src into dst; the two may overlap exactly.
	Encrypt(dst, src []byte)

	// Decrypt deciphers src into dst; the two may overlap exactly.
	Decrypt(dst, src []byte)
}

// blockCipherCrypt adapts any cipher.Block into packet-wide CFB.
type blockCipherCrypt struct {
	block cipher.Block
}

func (c *blockCipherCrypt) Encrypt(dst, src []byte) {
	iv := initialVector[:c.block.BlockSize()]
	cipher.NewCFBEncrypter(c.block, iv).XORKeyStream(dst, src)
}

func (c *blockCipherCrypt) Decrypt(dst, src []byte) {
	iv := initialVector[:c.block.BlockSize()]
	cipher.NewCFBDecrypter(c.block, iv).XORKeyStream(dst, src)
}

// NewAESBlockCrypt https://en.wikipedia.org/wiki/Advanced_Encryption_Standard
func NewAESBlockCrypt(key []byte) (BlockCrypt, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockCipherCrypt{block}, nil
}

// NewTEABlockCrypt https://en.wikipedia.org/wiki/Tiny_Encryption_Algorithm
func NewTEABlockCrypt(key []byte) (BlockCrypt, error) {
	block, err := tea.NewCipherWithRounds(key, 16)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockCipherCrypt{block}, nil
}

// NewXTEABlockCrypt https://en.wikipedia.org/wiki/XTEA
func NewXTEABlockCrypt(key []byte) (BlockCrypt, error) {
	block, err := xtea.NewCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockCipherCrypt{block}, nil
}

// NewBlowfishBlockCrypt https://en.wikipedia.org/wiki/Blowfish_(cipher)
func NewBlowfishBlockCrypt(key []byte) (BlockCrypt, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockCipherCrypt{block}, nil
}

// NewTwofishBlockCrypt https://en.wikipedia.org/wiki/Twofish
func NewTwofishBlockCrypt(key []byte) (BlockCrypt, error) {
	block, err := twofish.NewCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockCipherCrypt{block}, nil
}

// NewCast5BlockCrypt https://en.wikipedia.org/wiki/CAST-128
func NewCast5BlockCrypt(key []byte) (BlockCrypt, error) {
	block, err := cast5.NewCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockCipherCrypt{block}, nil
}

// NewTripleDESBlockCrypt https://en.wikipedia.org/wiki/Triple_DES
func NewTripleDESBlockCrypt(key []byte) (BlockCrypt, error) {
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &blockCipherCrypt{block}, nil
}

// salsa20BlockCrypt https://en.wikipedia.org/wiki/Salsa20
type salsa20BlockCrypt struct {
	key [32]byte
}

// NewSalsa20BlockCrypt initializes the salsa20 cipher; key must be 32
// bytes.
func NewSalsa20BlockCrypt(key []byte) (BlockCrypt, error) {
	if len(key) != 32 {
		return nil, errors.New("salsa20: key size must be 32")
	}
	c := new(salsa20BlockCrypt)
	copy(c.key[:], key)
	return c, nil
}

func (c *salsa20BlockCrypt) Encrypt(dst, src []byte) {
	// The leading 8 bytes of every packet are nonce material and stay in
	// the clear to key the stream.
	salsa20.XORKeyStream(dst[8:], src[8:], src[:8], &c.key)
	copy(dst[:8], src[:8])
}

func (c *salsa20BlockCrypt) Decrypt(dst, src []byte) {
	salsa20.XORKeyStream(dst[8:], src[8:], src[:8], &c.key)
	copy(dst[:8], src[:8])
}

// simpleXORBlockCrypt obfuscates packets with a repeating pad derived
// from the key. It resists nothing but casual inspection.
type simpleXORBlockCrypt struct {
	xortbl []byte
}

// NewSimpleXORBlockCrypt creates a XOR pad from key.
func NewSimpleXORBlockCrypt(key []byte) (BlockCrypt, error) {
	c := new(simpleXORBlockCrypt)
	c.xortbl = pbkdf2.Key(key, []byte(saltxor), 32, mtuLimit, sha1.New)
	return c, nil
}

func (c *simpleXORBlockCrypt) Encrypt(dst, src []byte) { xorBytes(dst, src, c.xortbl) }
func (c *simpleXORBlockCrypt) Decrypt(dst, src []byte) { xorBytes(dst, src, c.xortbl) }

func xorBytes(dst, src, pad []byte) {
	for i := range src {
		dst[i] = src[i] ^ pad[i%len(pad)]
	}
}

// noneBlockCrypt does not encrypt the packets at all.
type noneBlockCrypt struct{}

// NewNoneBlockCrypt passes the data through unchanged.
func NewNoneBlockCrypt(key []byte) (BlockCrypt, error) {
	return new(noneBlockCrypt), nil
}

func (c *noneBlockCrypt) Encrypt(dst, src []byte) { copy(dst, src) }
func (c *noneBlockCrypt) Decrypt(dst, src []byte) { copy(dst, src) }
