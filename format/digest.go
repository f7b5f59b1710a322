package format

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"sort"

	"github.com/corona10/goimagehash"

	"github.com/rushteam/tagkit/core"
)

// digestAlgorithms 是 [hash:ALGO] 支持的固定算法集。
var digestAlgorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

func supportedAlgorithms() []string {
	names := make([]string, 0, len(digestAlgorithms))
	for name := range digestAlgorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// digest 计算源文件字节的十六进制摘要，带缓存。
func (e *Engine) digest(path, algo string) (string, error) {
	key := path + "\x00" + algo

	e.mu.Lock()
	cached, ok := e.digests[key]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file for hashing: %w", err)
	}
	h := digestAlgorithms[algo]()
	h.Write(data)
	sum := hex.EncodeToString(h.Sum(nil))

	e.mu.Lock()
	e.digests[key] = sum
	e.mu.Unlock()
	return sum, nil
}

// perceptualHash 计算解码后图片的差值哈希，输出 16 位十六进制，带缓存。
func (e *Engine) perceptualHash(path string) (string, error) {
	if e.Codec == nil {
		return "", core.NewDomainError(core.ModuleFormat, core.ErrorCodeNotSupported,
			"format: [phash] requires an image codec")
	}

	key := path + "\x00phash"

	e.mu.Lock()
	cached, ok := e.digests[key]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	img, err := e.Codec.Decode(path)
	if err != nil {
		return "", err
	}
	h, err := goimagehash.DifferenceHash(img)
	if err != nil {
		return "", fmt.Errorf("perceptual hash: %w", err)
	}
	sum := fmt.Sprintf("%016x", h.GetHash())

	e.mu.Lock()
	e.digests[key] = sum
	e.mu.Unlock()
	return sum, nil
}
