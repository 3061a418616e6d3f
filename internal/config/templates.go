package config

import (
	"os"

	"github.com/pkg/errors"
)

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}

const Template = `log_level = "info"
magic = 0xfeedface
version = 1
max_auth_bytes = 1024
max_payload_bytes = 8388608

[[layout]]
name = "hello"
message_type = 1
size = 16

  [[layout.field]]
  name = "magic"
  offset = 0
  kind = "u32"
  order = "big"

  [[layout.field]]
  name = "version"
  offset = 4
  kind = "u8"

  [[layout.field]]
  name = "port"
  offset = 6
  kind = "u16"
  order = "little"

  [[layout.field]]
  name = "tag"
  offset = 8
  kind = "bytes"
  length = 8

[[layout]]
name = "ack"
message_type = 2
size = 8

  [[layout.field]]
  name = "id"
  offset = 0
  kind = "u32"
  order = "little"

  [[layout.field]]
  name = "status"
  offset = 4
  kind = "u16"
  order = "big"
`
