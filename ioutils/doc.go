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

/*
Package ioutils provides PathCheckCreate, a single helper that ensures a file
or directory exists at a given path with the expected type and permissions,
creating parent directories as needed.

credstore uses it to provision its pinned-trust cache directory before
writing a cache file into it: PathCheckCreate(false, dir, filePerm, dirPerm)
creates the directory (and its parents) if absent, or corrects its mode if it
already exists with the wrong one.

# Behavior

  - If path exists as the expected type (file vs directory): permissions are
    corrected if they don't match.
  - If path exists as the wrong type: returns an error without modification.
  - If path doesn't exist: it is created, along with any missing parent
    directories. A file is created through os.OpenRoot on its parent
    directory, so a symlink at the target name cannot lead the creation
    outside that directory.

# Thread Safety

PathCheckCreate is safe to call concurrently for different paths. Concurrent
calls for the same path may race; callers needing that guarantee must
serialize themselves.
*/
package ioutils
