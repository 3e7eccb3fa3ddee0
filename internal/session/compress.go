package session

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// sessionCodec 은 패키지 전역으로 재사용한다. zstd Encoder/Decoder 는
// EncodeAll/DecodeAll 호출에 한해 동시 사용이 안전하다.
var sessionCodec = &zstdCodec{}

// zstdCodec 은 스타일링 결과 직렬화에 쓰는 zstd 압축기다.
// 첫 사용 시점에 초기화하고 실패는 기억해 둔다.
type zstdCodec struct {
	once    sync.Once
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	initErr error
}

func (c *zstdCodec) init() error {
	c.once.Do(func() {
		// SpeedDefault 는 압축률과 속도의 균형점이다 (level 3)
		c.encoder, c.initErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if c.initErr != nil {
			c.initErr = fmt.Errorf("create zstd encoder: %w", c.initErr)
			return
		}
		c.decoder, c.initErr = zstd.NewReader(nil)
		if c.initErr != nil {
			c.initErr = fmt.Errorf("create zstd decoder: %w", c.initErr)
		}
	})
	return c.initErr
}

func (c *zstdCodec) compress(src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	return c.encoder.EncodeAll(src, make([]byte, 0, len(src))), nil
}

func (c *zstdCodec) decompress(src []byte) ([]byte, error) {
	if err := c.init(); err != nil {
		return nil, err
	}
	decoded, err := c.decoder.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return decoded, nil
}
