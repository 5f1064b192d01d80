package arquitectura

import (
	"time"

	domainauth "github.com/consalud/herederos-bff/internal/domain/auth"
	"github.com/consalud/herederos-bff/internal/domain/menu"
)

// The arquitectura API returns uppercase snake-case keys and loosely
// formatted timestamps. Raw row shapes live here and are mapped into domain
// records at the adapter boundary.

type rawProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Mail        string `json:"mail"`
	JobTitle    string `json:"jobTitle"`
	PhotoURL    string `json:"photoUrl"`
}

func (r rawProfile) toDomain() domainauth.Profile {
	return domainauth.Profile{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Mail:        r.Mail,
		JobTitle:    r.JobTitle,
		PhotoURL:    r.PhotoURL,
	}
}

type rawUsuarioAD struct {
	CuentaUsuario string `json:"CUENTA_USUARIO"`
	Mail          string `json:"MAIL"`
	Nombres       string `json:"NOMBRES"`
	Apellidos     string `json:"APELLIDOS"`
	Oficina       string `json:"OFICINA"`
	EstadoReg     string `json:"ESTADO_REG"`
}

func (r rawUsuarioAD) toDomain() domainauth.DirectoryProfile {
	return domainauth.DirectoryProfile{
		AccountName: r.CuentaUsuario,
		Mail:        r.Mail,
		FirstName:   r.Nombres,
		LastName:    r.Apellidos,
		Office:      r.Oficina,
		Active:      r.EstadoReg == string(domainauth.RoleStatusActive),
	}
}

type rawRol struct {
	IDUsuario      int    `json:"ID_USUARIO"`
	CodAplicacion  string `json:"COD_APLICACION"`
	Rol            string `json:"ROL"`
	TipoRol        string `json:"TIPO_ROL"`
	InicioVigencia string `json:"INICIO_VIGENCIA"`
	FinVigencia    string `json:"FIN_VIGENCIA"`
	EstadoReg      string `json:"ESTADO_REG"`
	FecEstadoReg   string `json:"FEC_ESTADO_REG"`
	UsuarioCrea    string `json:"USUARIO_CREACION"`
	FechaCrea      string `json:"FECHA_CREACION"`
	FuncionCrea    string `json:"FUNCION_CREACION"`
	UsuarioModif   string `json:"USUARIO_MODIF"`
	FechaModif     string `json:"FECHA_MODIF"`
	FuncionModif   string `json:"FUNCION_MODIF"`
}

func (r rawRol) toDomain() domainauth.Role {
	role := domainauth.Role{
		UserID:     r.IDUsuario,
		AppCode:    r.CodAplicacion,
		Name:       r.Rol,
		Type:       r.TipoRol,
		ValidFrom:  parseFecha(r.InicioVigencia),
		Status:     domainauth.RoleStatus(r.EstadoReg),
		StatusAt:   parseFecha(r.FecEstadoReg),
		CreatedBy:  r.UsuarioCrea,
		CreatedAt:  parseFecha(r.FechaCrea),
		CreatedFn:  r.FuncionCrea,
		ModifiedBy: r.UsuarioModif,
		ModifiedAt: parseFecha(r.FechaModif),
		ModifiedFn: r.FuncionModif,
	}
	if r.FinVigencia != "" {
		t := parseFecha(r.FinVigencia)
		role.ValidTo = &t
	}
	return role
}

type rawElemento struct {
	IDElemento  int    `json:"ID_ELEMENTO"`
	Controlador string `json:"CONTROLADOR"`
	Nombre      string `json:"NOMBRE"`
	Descripcion string `json:"DESCRIPCION"`
}

func (r rawElemento) toDomain() menu.Element {
	return menu.Element{
		ID:          r.IDElemento,
		Controller:  r.Controlador,
		Name:        r.Nombre,
		Description: r.Descripcion,
	}
}

// fechaLayouts are tried in order; the API is inconsistent about whether it
// includes a zone offset or a time at all.
var fechaLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseFecha(s string) time.Time {
	for _, layout := range fechaLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
