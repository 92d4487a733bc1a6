// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zerocopy

import (
	"io"
)

// Reader ZeroCopy-API
//
// Reader Read 零拷贝方式读取 n 字节数据
type Reader interface {
	Read(n int) ([]byte, error)
}

// Writer ZeroCopy-API
//
// Writer Write 零拷贝方式写入数据 写入不会失败
type Writer interface {
	Write(p []byte)
}

// Closer ZeroCopy-API
//
// Close 将 Reader 置为 io.EOF 状态
type Closer interface {
	Close()
}

// Peeker ZeroCopy-API
//
// Peek 在不消费数据的前提下查看接下来的 n 字节 不足 n 字节返回 false
type Peeker interface {
	Peek(n int) ([]byte, bool)
}

// Buffer ZeroCopy-API
//
// 支持 Write/Read/Peek/Close 方法 Read/Peek/Close 为零拷贝
// Write 仅在仍有未读尾部时需要拷贝一次（见 buffer.Write）
type Buffer interface {
	Writer
	Reader
	Peeker
	Closer
}

type buffer struct {
	r int
	b []byte
}

// NewBuffer 创建并返回 Buffer 实例
//
// 此实现用于 conn.Connection 接收路径的帧重组
// 可以避免拷贝从网卡中读取的数据 但前提条件是使用此接口的调用方 `不修改任何字节数据`
//
// Write 写入性能会由于 bytes.Buffer Write 实现 参见 benchmark
func NewBuffer(p []byte) Buffer {
	return &buffer{
		b: p,
	}
}

// Read 实现 Reader 接口
func (buf *buffer) Read(n int) ([]byte, error) {
	if buf.r == len(buf.b) {
		return nil, io.EOF
	}

	if buf.r+n >= len(buf.b) {
		b := buf.b[buf.r:len(buf.b)]
		buf.r = len(buf.b)
		return b, nil
	}

	b := buf.b[buf.r : buf.r+n]
	buf.r += n
	return b, nil
}

// Peek 实现 Peeker 接口
//
// 与 Read 不同 Peek 不推进读指针 也不允许部分返回：尚未集齐 n 字节时返回 false
// 供调用方先窥探一个完整帧的长度前缀 再决定是否消费
func (buf *buffer) Peek(n int) ([]byte, bool) {
	if buf.r+n > len(buf.b) {
		return nil, false
	}
	return buf.b[buf.r : buf.r+n], true
}

// Write 实现 Writer 接口
//
// 若上一段数据已读尽 直接替换底层切片 零拷贝；否则说明还有一帧数据
// 横跨了两次 Write（例如一次 TCP 分段没能带来完整帧），需要先把未读的
// 尾部和新数据拼接起来 这种情况下无法避免一次拷贝
func (buf *buffer) Write(p []byte) {
	if buf.r == len(buf.b) {
		buf.b = p
		buf.r = 0
		return
	}
	buf.b = append(buf.b[buf.r:], p...)
	buf.r = 0
}

// Close 实现 Close 接口
func (buf *buffer) Close() {
	buf.r = len(buf.b)
}
