// Package security holds the client TLS settings shared by the redis and
// kafka components. A TLSConfig decodes from a "tls" sub-section:
//
//	redis:
//	  addr: cache:6380
//	  tls:
//	    enabled: true
//	    ca_file: /etc/ssl/cache-ca.pem
package security
