package workspace

import (
	"strconv"

	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/style"
)

// Setting values travel as raw strings; each key's declared type (from the
// config table) selects the conversion below. A value that fails its
// conversion is never stored: SetSetting rejects it and the loader drops it
// with a warning.

func validateSettingValue(typ, value string) error {
	switch typ {
	case "boolean":
		if value != "true" && value != "false" {
			return errors.New(errors.ErrCodeInvalidArgument, "boolean setting must be true or false, got %q", value)
		}
	case "dock_location":
		switch value {
		case "left", "right", "top", "bottom", "floating":
		default:
			return errors.New(errors.ErrCodeInvalidArgument, "unknown dock location %q", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidArgument, err, "bad float setting %q", value)
		}
	case "rgba":
		if _, err := strconv.ParseUint(value, 0, 32); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidArgument, err, "bad rgba setting %q", value)
		}
	case "uinteger":
		if _, err := strconv.ParseUint(value, 10, 32); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidArgument, err, "bad unsigned integer setting %q", value)
		}
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "unknown setting type %q", typ)
	}
	return nil
}

// BoolSetting returns a boolean setting, falling back to the built-in default.
func (d *Data) BoolSetting(key string) (bool, error) {
	v, ok := d.Setting(key)
	if !ok {
		return false, errors.New(errors.ErrCodeNotFound, "unknown setting %q", key)
	}
	return v == "true", nil
}

// UintSetting returns an unsigned integer setting.
func (d *Data) UintSetting(key string) (uint32, error) {
	v, ok := d.Setting(key)
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "unknown setting %q", key)
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFailed, err, "setting %q", key)
	}
	return uint32(n), nil
}

// FloatSetting returns a floating-point setting.
func (d *Data) FloatSetting(key string) (float64, error) {
	v, ok := d.Setting(key)
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "unknown setting %q", key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFailed, err, "setting %q", key)
	}
	return f, nil
}

// ColorSetting returns an rgba setting unpacked into a normalized color.
func (d *Data) ColorSetting(key string) (style.Color, error) {
	v, ok := d.Setting(key)
	if !ok {
		return style.Color{}, errors.New(errors.ErrCodeNotFound, "unknown setting %q", key)
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return style.Color{}, errors.Wrap(errors.ErrCodeFailed, err, "setting %q", key)
	}
	return style.UnpackRGBA(uint32(n)), nil
}

// DockSetting returns a dock-location setting.
func (d *Data) DockSetting(key string) (string, error) {
	v, ok := d.Setting(key)
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "unknown setting %q", key)
	}
	return v, nil
}
