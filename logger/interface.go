/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package logger

// Logger is the event sink transport's dial path, the resolver's discovery
// loop, and httpengine's field table report through. data carries an
// optional structured payload (or nil); args are appended as free-form
// context, the way the teacher's log calls do.
//
// This is deliberately smaller than the teacher's Logger: nothing in this
// repo reaches for hook backends, gin/gorm/hclog/jww bridges, IO-writer
// filtering, or the entry/access builder, so none of that surface is kept.
type Logger interface {
	Debug(message string, data interface{}, args ...interface{})
	Info(message string, data interface{}, args ...interface{})
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
}
