// Package domain decodes and normalizes OTT Parsivel disdrometer raw telemetry.
//
// # Raw Format
//
// A Parsivel raw file is line oriented. Every line carries one field of one
// observation interval (nominally one minute) and starts with a two digit tag:
//
//	01:0.000              rain rate, mm/h
//	07:-9.999             radar reflectivity, dBZ (-9.999 when unavailable)
//	11:0                  number of detected particles
//	20:00:01:00           sensor time HH:MM:SS
//	90:-9.999;-9.999;...  32 drop number densities, log10(1/m^3 mm)
//	91:0.000;0.000;...    32 mean fall velocities per diameter class, m/s
//	93:000;000;...        1024 raw counts, 32 diameter x 32 velocity classes
//
// Other tags (sensor status, serial number, heating current and so on) are
// ignored. Matrix payloads are ';' joined and usually end with a stray ';'
// and a CR. Each matrix tag is trimmed on its own because the instrument is
// not consistent about trailing punctuation.
//
// # Sentinels
//
// -9.999 marks a missing value. Reflectivity keeps it as a masked entry so
// reductions skip it. Drop number densities replace it with 0: the instrument
// emits the sentinel for empty diameter classes as well, so missing and zero
// are the same thing for that field.
//
// # Alignment
//
// Every per-interval series in a normalized [Dataset] has one entry per
// decoded timestamp. Lines that fail to parse are collected as
// [MalformedRecord] warnings by the decoder and leave their series one short;
// [Normalize] reports the resulting length difference as a
// [ShapeMismatchError] instead of padding or truncating.
package domain
