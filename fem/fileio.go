// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/Xianchao-Xu/FEBio/contact"
)

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) contact.Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) contact.Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// SaveSol saves solution (o.Sol) and the state of contact interfaces to a file which name is set
// with tidx (time output index)
func (o *Domain) SaveSol(tidx int, verbose bool) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.Sim.EncType)

	// encode Sol
	err = enc.Encode(o.Sol.T)
	if err != nil {
		return chk.Err("cannot encode Domain.Sol.T\n%v", err)
	}
	err = enc.Encode(o.Sol.Y)
	if err != nil {
		return chk.Err("cannot encode Domain.Sol.Y\n%v", err)
	}
	err = enc.Encode(o.Sol.Ubar)
	if err != nil {
		return chk.Err("cannot encode Domain.Sol.Ubar\n%v", err)
	}

	// encode contact interfaces
	for _, c := range o.Contacts {
		err = c.Encode(enc)
		if err != nil {
			return
		}
	}

	// save file
	fn := out_nod_path(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, tidx)
	return save_file(fn, &buf, verbose)
}

// ReadSol reads Solution from a file which name is set with tidx (time output index)
//  Note: the stage must have been set already
func (o *Domain) ReadSol(dir, fnkey, enctype string, tidx int) (err error) {

	// check
	if o.Sol == nil {
		return chk.Err("stage must be set before reading solution")
	}

	// open file
	fn := out_nod_path(dir, fnkey, enctype, tidx)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer fil.Close()

	// get decoder
	dec := GetDecoder(fil, enctype)

	// decode Sol
	err = dec.Decode(&o.Sol.T)
	if err != nil {
		return chk.Err("cannot decode Domain.Sol.T\n%v", err)
	}
	err = dec.Decode(&o.Sol.Y)
	if err != nil {
		return chk.Err("cannot decode Domain.Sol.Y\n%v", err)
	}
	if len(o.Sol.Y) != o.Ny {
		return chk.Err("decoded solution has %d equations; %d expected", len(o.Sol.Y), o.Ny)
	}
	err = dec.Decode(&o.Sol.Ubar)
	if err != nil {
		return chk.Err("cannot decode Domain.Sol.Ubar\n%v", err)
	}
	if len(o.Sol.Ubar) != 3*len(o.X) {
		return chk.Err("decoded prescribed values have length %d; %d expected", len(o.Sol.Ubar), 3*len(o.X))
	}

	// decode contact interfaces
	for _, c := range o.Contacts {
		err = c.Decode(dec)
		if err != nil {
			return
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func out_nod_path(dir, fnkey, enctype string, tidx int) string {
	return filepath.Join(dir, io.Sf("%s_nod_%010d.%s", fnkey, tidx, enctype))
}

func save_file(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
